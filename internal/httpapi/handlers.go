package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roach88/riddlechain/internal/app"
	"github.com/roach88/riddlechain/internal/library"
	"github.com/roach88/riddlechain/internal/puzzle"
	"github.com/roach88/riddlechain/internal/sequence"
)

// LibraryResponse is the body of GET /api/library.
type LibraryResponse struct {
	Entries []app.Entry    `json:"entries"`
	Totals  library.Totals `json:"totals"`
	Overall string         `json:"overall"`
}

// AnswerResponse is the body of POST /api/run/answer.
type AnswerResponse struct {
	Verdict puzzle.Verdict `json:"verdict"`
	View    app.View       `json:"view"`
}

func (s *Server) listLibrary(c *gin.Context) {
	totals := s.ctrl.Library().Totals()
	c.JSON(http.StatusOK, LibraryResponse{
		Entries: s.ctrl.Entries(),
		Totals:  totals,
		Overall: totals.Text(),
	})
}

func (s *Server) getSequence(c *gin.Context) {
	q, err := s.ctrl.Library().Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (s *Server) createSequence(c *gin.Context) {
	q, err := s.ctrl.CreateSequence(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, q)
}

func (s *Server) saveSequence(c *gin.Context) {
	q, ok := s.decodeSequence(c, "sequence.json")
	if !ok {
		return
	}
	q.ID = c.Param("id")
	saved, err := s.ctrl.SaveSequenceEdits(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (s *Server) importSequence(c *gin.Context) {
	q, ok := s.decodeSequence(c, "import.json")
	if !ok {
		return
	}
	imported, err := s.ctrl.Library().Import(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, imported)
}

func (s *Server) exportLibrary(c *gin.Context) {
	data, err := s.ctrl.Library().Export()
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="library.json"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

func (s *Server) playSequence(c *gin.Context) {
	if err := s.ctrl.SelectSequence(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.ctrl.View())
}

func (s *Server) editSequence(c *gin.Context) {
	if err := s.ctrl.EditSequence(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.ctrl.View())
}

func (s *Server) view(c *gin.Context) {
	c.JSON(http.StatusOK, s.ctrl.View())
}

// command adapts a controller command to a handler that answers with the
// resulting view.
func (s *Server) command(cmd func() error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := cmd(); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, s.ctrl.View())
	}
}

func (s *Server) answer(c *gin.Context) {
	var a puzzle.Answer
	if err := c.ShouldBindJSON(&a); err != nil {
		badRequest(c, "invalid answer: "+err.Error())
		return
	}
	verdict, err := s.ctrl.SubmitAnswer(a)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, AnswerResponse{Verdict: verdict, View: s.ctrl.View()})
}

func (s *Server) settle(c *gin.Context) {
	s.ctrl.Settle()
	c.JSON(http.StatusOK, s.ctrl.View())
}

func (s *Server) leave(c *gin.Context) {
	s.ctrl.GoToLibrary()
	c.JSON(http.StatusOK, s.ctrl.View())
}

// decodeSequence reads a sequence document from the body, checking it
// against the schema first when a validator is configured.
func (s *Server) decodeSequence(c *gin.Context, name string) (*sequence.Sequence, bool) {
	data, ok := readBody(c)
	if !ok {
		return nil, false
	}
	if s.validator != nil {
		if err := s.validator.Validate(name, data); err != nil {
			writeError(c, err)
			return nil, false
		}
	}
	q, err := sequence.DecodeJSON(data)
	if err != nil {
		badRequest(c, err.Error())
		return nil, false
	}
	return q, true
}
