// Package cms assembles the school-site content core: pages with typed
// content blocks, revision history, role-based permissions, a block
// renderer, an editing session surface, and a markdown importer.
package cms

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/brightlane/school-cms/internal/blocks"
	pagescmd "github.com/brightlane/school-cms/internal/commands/pages"
	"github.com/brightlane/school-cms/internal/domain"
	"github.com/brightlane/school-cms/internal/editor"
	"github.com/brightlane/school-cms/internal/logging"
	"github.com/brightlane/school-cms/internal/logging/gologger"
	"github.com/brightlane/school-cms/internal/markdown"
	"github.com/brightlane/school-cms/internal/pages"
	"github.com/brightlane/school-cms/internal/permissions"
	"github.com/brightlane/school-cms/internal/render"
	"github.com/brightlane/school-cms/internal/users"
	"github.com/brightlane/school-cms/pkg/interfaces"
)

// PageService exports the page service contract.
type PageService = pages.Service

// Page exports the page record.
type Page = pages.Page

// Revision exports the page snapshot record.
type Revision = pages.Revision

// Block exports the content block model.
type Block = blocks.Block

// User exports the account record consumed by the permission evaluator.
type User = users.User

// Role exports the account role enum.
type Role = domain.Role

// UserDirectory exports the user lookup contract.
type UserDirectory = users.Directory

// Evaluator exports the permission evaluator.
type Evaluator = permissions.Evaluator

// FileStore exports the media storage contract consumed by editor sessions.
type FileStore = interfaces.FileStore

// ExternalUserDirectory exports the host-side account lookup contract.
type ExternalUserDirectory = interfaces.UserDirectory

// Renderer exports the content block renderer.
type Renderer = render.Renderer

// RenderedDocument exports the renderer output tree.
type RenderedDocument = render.Document

// EditorSession exports the authoring session surface.
type EditorSession = editor.Session

// Importer exports the markdown page importer.
type Importer = markdown.Importer

// MarkdownDocument exports one parsed markdown source file.
type MarkdownDocument = markdown.Document

// ImportOptions exports the markdown import options.
type ImportOptions = markdown.ImportOptions

// PublishPageCommand exports the publish command message.
type PublishPageCommand = pagescmd.PublishPageCommand

// SchedulePageCommand exports the schedule command message.
type SchedulePageCommand = pagescmd.SchedulePageCommand

// RestoreRevisionCommand exports the revision restore command message.
type RestoreRevisionCommand = pagescmd.RestoreRevisionCommand

// Module is the top level runtime façade. Construct it once and share it;
// every accessor returns the same wired instance.
type Module struct {
	cfg      Config
	provider interfaces.LoggerProvider

	directory users.Directory
	evaluator *permissions.Evaluator
	pages     pages.Service
	renderer  *render.Renderer
	importer  *markdown.Importer

	publish  *pagescmd.PublishPageHandler
	schedule *pagescmd.SchedulePageHandler
	restore  *pagescmd.RestoreRevisionHandler
}

type moduleOptions struct {
	directory users.Directory
	provider  interfaces.LoggerProvider
	clock     func() time.Time
	idgen     func() uuid.UUID
}

// Option overrides a module collaborator during construction.
type Option func(*moduleOptions)

// WithUserDirectory replaces the user store. Useful for seeding fixtures or
// bridging an external account system.
func WithUserDirectory(directory users.Directory) Option {
	return func(o *moduleOptions) {
		if directory != nil {
			o.directory = directory
		}
	}
}

// WithLoggerProvider replaces the logging provider selected by Config.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(o *moduleOptions) {
		if provider != nil {
			o.provider = provider
		}
	}
}

// WithClock fixes the time source used for publication timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *moduleOptions) {
		if now != nil {
			o.clock = now
		}
	}
}

// WithIDGenerator fixes identifier generation, used by deterministic fixtures.
func WithIDGenerator(generator func() uuid.UUID) Option {
	return func(o *moduleOptions) {
		if generator != nil {
			o.idgen = generator
		}
	}
}

// New constructs a module from the supplied configuration.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := moduleOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	provider := options.provider
	if provider == nil && cfg.Logging.Provider == LoggingProviderGoLogger {
		built, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
		})
		if err != nil {
			return nil, err
		}
		provider = built
	}

	directory := options.directory
	if directory == nil {
		if cfg.DB != nil {
			directory = users.NewBunDirectoryWithCache(cfg.DB, cfg.Cache.Service, cfg.Cache.KeySerializer)
		} else {
			directory = users.NewMemoryDirectory()
		}
	}

	evaluator := permissions.NewEvaluator(directory,
		permissions.WithLogger(logging.PermissionsLogger(provider)),
	)

	var (
		repo      pages.Repository
		revisions pages.RevisionStore
	)
	if cfg.DB != nil {
		repo = pages.NewBunRepositoryWithCache(cfg.DB, cfg.Cache.Service, cfg.Cache.KeySerializer)
		revisions = pages.NewBunRevisionStore(cfg.DB)
	} else {
		repo = pages.NewMemoryRepository()
		revisions = pages.NewMemoryRevisionStore()
	}

	serviceOpts := []pages.ServiceOption{
		pages.WithLogger(logging.PagesLogger(provider)),
	}
	if options.clock != nil {
		serviceOpts = append(serviceOpts, pages.WithClock(options.clock))
	}
	if options.idgen != nil {
		serviceOpts = append(serviceOpts, pages.WithIDGenerator(options.idgen))
	}
	service := pages.NewService(repo, revisions, evaluator, serviceOpts...)

	logger := logging.ModuleLogger(provider, "")
	importer := markdown.NewImporter(service,
		markdown.WithLogger(logging.ImporterLogger(provider)),
	)

	module := &Module{
		cfg:       cfg,
		provider:  provider,
		directory: directory,
		evaluator: evaluator,
		pages:     service,
		renderer:  render.NewRenderer(render.WithLogger(logging.RenderLogger(provider))),
		importer:  importer,
		publish:   pagescmd.NewPublishPageHandler(service, logger),
		schedule:  pagescmd.NewSchedulePageHandler(service, logger),
		restore:   pagescmd.NewRestoreRevisionHandler(service, logger),
	}
	return module, nil
}

// Pages returns the configured page service.
func (m *Module) Pages() PageService {
	return m.pages
}

// Users returns the configured user directory.
func (m *Module) Users() UserDirectory {
	return m.directory
}

// Permissions returns the configured permission evaluator.
func (m *Module) Permissions() *Evaluator {
	return m.evaluator
}

// Renderer returns the content block renderer.
func (m *Module) Renderer() *Renderer {
	return m.renderer
}

// Importer returns the markdown page importer.
func (m *Module) Importer() *Importer {
	return m.importer
}

// CanDelete reports whether the actor may hard-delete pages. Intended for
// host UI affordances such as hiding delete controls.
func (m *Module) CanDelete(ctx context.Context, actorID uuid.UUID) (bool, error) {
	return m.evaluator.CanDelete(ctx, actorID)
}

// ActorRole resolves the actor's role, or "" when the account is unknown or
// deactivated.
func (m *Module) ActorRole(ctx context.Context, actorID uuid.UUID) (Role, error) {
	return m.evaluator.Role(ctx, actorID)
}

// EditSession opens an authoring session for the given actor. A nil page
// starts a fresh draft.
func (m *Module) EditSession(actorID uuid.UUID, page *Page, opts ...editor.SessionOption) *EditorSession {
	sessionOpts := append([]editor.SessionOption{
		editor.WithLogger(logging.EditorLogger(m.provider)),
	}, opts...)
	return editor.NewSession(m.pages, actorID, page, sessionOpts...)
}

// PublishHandler returns the publish command handler.
func (m *Module) PublishHandler() *pagescmd.PublishPageHandler {
	return m.publish
}

// ScheduleHandler returns the schedule command handler.
func (m *Module) ScheduleHandler() *pagescmd.SchedulePageHandler {
	return m.schedule
}

// RestoreHandler returns the revision restore command handler.
func (m *Module) RestoreHandler() *pagescmd.RestoreRevisionHandler {
	return m.restore
}

// LoggerProvider exposes the logging provider for host integrations. It is
// nil when logging is disabled.
func (m *Module) LoggerProvider() interfaces.LoggerProvider {
	return m.provider
}

// BridgeUserDirectory adapts a host account system so it can be passed to
// WithUserDirectory.
func BridgeUserDirectory(external ExternalUserDirectory) UserDirectory {
	return users.BridgeDirectory(external)
}

// BuildMarkdownDocument parses a markdown source file into an importable
// document.
func BuildMarkdownDocument(path string, source []byte, modified time.Time) (*MarkdownDocument, error) {
	return markdown.BuildDocument(path, source, modified)
}
