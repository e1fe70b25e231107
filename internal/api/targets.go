// Copyright (c) 2026 Verdantia. All rights reserved.

package api

import (
	"context"

	"github.com/verdantia/verdantia/internal/authz"
	"github.com/verdantia/verdantia/internal/core/article"
	"github.com/verdantia/verdantia/internal/core/engage"
	"github.com/verdantia/verdantia/internal/core/event"
	"github.com/verdantia/verdantia/internal/core/plant"
	"github.com/verdantia/verdantia/internal/platform/apperr"
)

// ContentTargets adapts the three content services into the resolver the
// engagement service uses to verify a target exists and is readable by the
// acting user.
type ContentTargets struct {
	Plants   *plant.Service
	Articles *article.Service
	Events   *event.Service
}

// Resolve checks readability through the owning service so per-actor
// visibility rules apply. Unknown kinds surface as NotFound.
func (targets *ContentTargets) Resolve(context context.Context, actor *authz.Identity, kind engage.TargetKind, targetID string) error {
	switch kind {
	case engage.KindPlant:
		_, err := targets.Plants.GetPlant(context, actor, targetID)
		return err
	case engage.KindArticle:
		_, err := targets.Articles.GetArticle(context, actor, targetID)
		return err
	case engage.KindEvent:
		_, err := targets.Events.GetEvent(context, actor, targetID)
		return err
	}
	return apperr.NotFound("Content")
}
