package app

import (
	"context"

	"linkie-web/internal/core"
	"linkie-web/internal/types"
)

func (s *Service) Search(ctx context.Context, req SearchRequest) (types.SearchResultEntries, error) {
	registry, err := s.registry()
	if err != nil {
		return types.SearchResultEntries{}, err
	}
	dispatcher := core.NewSearchDispatcher(registry, s.Engine)
	return dispatcher.Search(ctx, core.SearchRequest{
		Namespace:          req.Namespace,
		TranslateNamespace: req.TranslateNamespace,
		Version:            req.Version,
		Query:              req.Query,
		Types: types.TypeFilter{
			Classes: req.AllowClasses,
			Methods: req.AllowMethods,
			Fields:  req.AllowFields,
		},
		Limit: req.Limit,
	})
}
