package rules

import (
	"slices"
	"sync/atomic"
	"time"

	"dssrules/internal/logging"
)

// BootstrapRules is loaded whenever the caller does not name any rules.
var BootstrapRules = []string{
	"00-dss-core.mdc",
	"01-dss-behavior.mdc",
	"workflows/00-workflow-selection.mdc",
}

// Service answers rule retrieval and listing requests for one rules root.
type Service struct {
	loader      *Loader
	catalog     *Catalog
	bootstrap   []string
	suggestions SuggestionTable
	served      *atomic.Bool
	logger      *logging.AppLogger
}

// Option customizes a Service.
type Option func(*Service)

// WithBootstrap replaces the default bootstrap set.
func WithBootstrap(ids []string) Option {
	return func(s *Service) { s.bootstrap = slices.Clone(ids) }
}

// WithSuggestions replaces the default context keyword table.
func WithSuggestions(table SuggestionTable) Option {
	return func(s *Service) { s.suggestions = table }
}

// NewService creates a Service over the rules directory dir. served is set
// once the first retrieval completes; it may be nil when nobody watches it.
func NewService(dir string, served *atomic.Bool, logger *logging.AppLogger, opts ...Option) *Service {
	s := &Service{
		bootstrap:   slices.Clone(BootstrapRules),
		suggestions: DefaultSuggestions,
		served:      served,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.served == nil {
		s.served = new(atomic.Bool)
	}
	s.loader = NewLoader(dir, logger)
	s.catalog = NewCatalog(dir, s.suggestions, logger)
	return s
}

// Root returns the rules directory
func (s *Service) Root() string {
	return s.loader.Root()
}

// Served reports whether any retrieval has completed.
func (s *Service) Served() bool {
	return s.served.Load()
}

// Retrieve resolves req into the effective identifier list, appends context
// suggestions, and loads every document. It never fails: every problem is
// carried inside the returned Report.
func (s *Service) Retrieve(req Request, context string, includeSuggestions bool) Report {
	defer s.logger.LogPerformance("retrieve", time.Now())

	// An explicit empty list is a different intent from an unparseable
	// value, but both end up with the bootstrap set.
	if req.Kind == RequestList && len(req.List) == 0 {
		s.logger.Debug("Received empty list for rule_files, treating as absent")
		req = AbsentRequest()
	}

	sel := Normalize(req)

	// A comma string of blank segments is an explicit empty selection:
	// nothing is loaded.
	ids := slices.Clone(s.bootstrap)
	if sel.Valid && sel.Identifiers != nil {
		ids = slices.Clone(sel.Identifiers)
	}

	var suggested []string
	if includeSuggestions && context != "" {
		suggested = s.suggestions.Suggest(context)
		ids = append(ids, suggested...)
	}

	s.logger.Info("Retrieving rule files", "root", s.loader.Root(), "count", len(ids))

	report := Report{
		Selection:   sel,
		Context:     context,
		Suggestions: suggested,
		Results:     s.loader.Load(ids),
	}

	s.served.Store(true)
	return report
}

// GetRules is Retrieve rendered as text.
func (s *Service) GetRules(req Request, context string, includeSuggestions bool) string {
	return s.Retrieve(req, context, includeSuggestions).Render()
}

// ListRules renders the catalog of available rule documents.
func (s *Service) ListRules(category string, includeDescriptions bool) string {
	if category == "" {
		category = CategoryAll
	}
	return s.catalog.Render(category, includeDescriptions)
}
