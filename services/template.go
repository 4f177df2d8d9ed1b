package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"report-templates/errs"
	"report-templates/metrics"
	"report-templates/models"
	"report-templates/parser"
	"report-templates/query"
	"report-templates/terms"
)

// TemplateService ist die einzige Schnittstelle nach außen. Pflichtargumente werden geprüft,
// bevor der Store angesprochen wird.
type TemplateService struct {
	Store    *TemplateStore
	Resolver *terms.Resolver
	Query    *query.Engine
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

// NewTemplateService erstellt eine neue Instanz des TemplateService.
func NewTemplateService(store *TemplateStore, resolver *terms.Resolver, m *metrics.Metrics, logger *zap.Logger) *TemplateService {
	return &TemplateService{
		Store:    store,
		Resolver: resolver,
		Query:    query.NewEngine(store),
		Metrics:  m,
		Logger:   logger,
	}
}

func (s *TemplateService) Get(ctx context.Context, id uint) (*models.Template, error) {
	if id == 0 {
		return nil, errs.New(errs.CodeInvalidArgument, "id cannot be zero")
	}
	return s.Store.GetByID(ctx, id)
}

func (s *TemplateService) GetByUUID(ctx context.Context, uuid string) (*models.Template, error) {
	if uuid == "" {
		return nil, errs.New(errs.CodeInvalidArgument, "uuid cannot be empty")
	}
	return s.Store.GetByUUID(ctx, uuid)
}

func (s *TemplateService) GetByIdentifier(ctx context.Context, identifier string) (*models.Template, error) {
	if identifier == "" {
		return nil, errs.New(errs.CodeInvalidArgument, "identifier cannot be empty")
	}
	return s.Store.GetByIdentifier(ctx, identifier)
}

// Save speichert ein neues Template ohne Dateiinhalt. Ein Template mit vergebener ID wird
// abgelehnt; es gibt keinen Update-Pfad.
func (s *TemplateService) Save(ctx context.Context, tpl *models.Template) (*models.Template, error) {
	if tpl == nil {
		return nil, errs.New(errs.CodeInvalidArgument, "template cannot be nil")
	}
	if tpl.ID != 0 {
		return nil, errs.New(errs.CodeDuplicateTemplate, "template already exists")
	}
	return s.Store.Create(ctx, tpl, nil)
}

// Import parst raw, löst die Konzept-Marker auf und speichert Datensatz und Originaldatei.
func (s *TemplateService) Import(ctx context.Context, raw string) (*models.Template, error) {
	if raw == "" {
		return nil, errs.New(errs.CodeInvalidArgument, "raw template cannot be empty")
	}
	start := time.Now()
	tpl, err := s.importTemplate(ctx, raw)
	s.Metrics.ObserveImport(importOutcome(err), start)
	if err != nil {
		s.Logger.Warn("Template-Import fehlgeschlagen", zap.String("code", string(errs.CodeOf(err))), zap.Error(err))
		return nil, err
	}
	return tpl, nil
}

func (s *TemplateService) importTemplate(ctx context.Context, raw string) (*models.Template, error) {
	parsed, err := parser.Parse(raw)
	if err != nil {
		return nil, err
	}
	resolved, err := s.Resolver.Resolve(ctx, parsed.TermReferences)
	if err != nil {
		return nil, err
	}
	s.Logger.Debug("Template geparst",
		zap.String("identifier", parsed.Identifier),
		zap.Int("markers", len(parsed.TermReferences)),
		zap.Int("terms", len(resolved)))

	tpl := FromParsed(parsed)
	tpl.Terms = terms.ToTemplateTerms(resolved)
	return s.Store.Create(ctx, tpl, []byte(raw))
}

// FromParsed übernimmt die Metadaten eines ParsedTemplate in ein neues Template.
func FromParsed(p *parser.ParsedTemplate) *models.Template {
	return &models.Template{
		Title:       p.Title,
		Description: p.Description,
		Identifier:  p.Identifier,
		Type:        p.Type,
		Language:    p.Language,
		Publisher:   p.Publisher,
		Rights:      p.Rights,
		License:     p.License,
		Date:        p.Date,
		Creator:     p.Creator,
		Contributor: p.Contributor,
	}
}

func importOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeImported
	case errs.HasCode(err, errs.CodeMalformedTemplate):
		return metrics.OutcomeMalformed
	case errs.HasCode(err, errs.CodeDuplicateTemplate):
		return metrics.OutcomeDuplicate
	default:
		return metrics.OutcomeFailed
	}
}

// Purge löscht Datensatz und Datei.
func (s *TemplateService) Purge(ctx context.Context, tpl *models.Template) error {
	if tpl == nil {
		return errs.New(errs.CodeInvalidArgument, "template cannot be nil")
	}
	if tpl.ID == 0 {
		return errs.New(errs.CodeInvalidArgument, "template id cannot be zero")
	}
	if err := s.Store.Purge(ctx, tpl); err != nil {
		return err
	}
	s.Metrics.TemplatesPurged.Inc()
	return nil
}

// Find gibt alle Templates zurück, die criteria erfüllen; nie nil.
func (s *TemplateService) Find(ctx context.Context, criteria *query.Criteria) ([]models.Template, error) {
	if criteria == nil {
		return nil, errs.New(errs.CodeInvalidArgument, "criteria cannot be nil")
	}
	return s.Query.Find(ctx, criteria)
}

// BodyHTML liest das gespeicherte Dokument und gibt nur den Inhalt des <body> zurück.
func (s *TemplateService) BodyHTML(ctx context.Context, tpl *models.Template) (string, error) {
	if tpl == nil {
		return "", errs.New(errs.CodeInvalidArgument, "template cannot be nil")
	}
	content, err := s.Store.ReadContent(ctx, tpl)
	if err != nil {
		return "", err
	}
	body, err := parser.ExtractBody(string(content))
	if err != nil {
		return "", errs.Wrap(err, errs.CodeStorageFailure, "stored template cannot be read as markup")
	}
	return body, nil
}
