package errors

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// Responder writes Problem Details, resolving relative problem types against BaseURI.
type Responder struct {
	BaseURI string
}

// NewResponder returns a responder rooted at baseURI. An empty baseURI keeps types relative.
func NewResponder(baseURI string) *Responder {
	return &Responder{BaseURI: strings.TrimRight(strings.TrimSpace(baseURI), "/")}
}

// DefaultResponder uses relative URIs for problem types.
var DefaultResponder = NewResponder("")

// Respond sends problem with the problem+json content type. Instance defaults to the request path.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.BaseURI != "" && strings.HasPrefix(problem.Type, "/") {
		problem.Type = r.BaseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

func (r *Responder) BadRequest(c *gin.Context, detail string) {
	r.Respond(c, ErrBadRequest.WithDetail(detail))
}

// ValidationFailed reports per-field errors under the "fields" extension.
func (r *Responder) ValidationFailed(c *gin.Context, fieldErrors map[string]string) {
	r.Respond(c, NewValidationProblem(fieldErrors))
}
