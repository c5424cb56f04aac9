package controllers

import (
	"net/http"

	"github.com/angelmondragon/stockroom-backend/api/middleware"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
)

func actorFrom(r *http.Request) (string, error) {
	actor := middleware.ActorFromContext(r.Context())
	if actor == "" {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	return actor, nil
}

func unavailable(name string) error {
	return pkgerrors.New(pkgerrors.CodeInternal, name+" service unavailable")
}
