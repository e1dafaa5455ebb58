package http

import (
	"github.com/tasktrack-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/tasktrack-api/internal/infrastructure/jwt"
	"github.com/tasktrack-api/internal/infrastructure/mail"
	s3infra "github.com/tasktrack-api/internal/infrastructure/s3"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo     *dynamo.UserRepo
	CategoryRepo *dynamo.CategoryRepo
	ProjectRepo  *dynamo.ProjectRepo
	TaskRepo     *dynamo.TaskRepo
	TicketRepo   *dynamo.TicketRepo
	FeatureRepo  *dynamo.FeatureRepo
	S3Store      *s3infra.Store
	Mailer       mail.Mailer
	JWTProvider  *jwtinfra.Provider
}
