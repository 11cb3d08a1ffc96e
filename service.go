package participant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/viant/participant/internal/idgen"
	"github.com/viant/participant/internal/logger"
	"github.com/viant/participant/keyspace"
	"github.com/viant/participant/service/attribute"
	"github.com/viant/participant/service/event"
	"github.com/viant/participant/service/identity"
	"github.com/viant/participant/storage"
	"github.com/viant/participant/storage/memory"
	"github.com/viant/participant/tracing"
	"github.com/viant/participant/validator"
)

// Service is the participant façade: identifier lifecycle plus the
// attributes of one application.
type Service struct {
	appName   string
	prefix    string
	keys      keyspace.Space
	store     storage.Store
	guard     *storage.Guard
	validator validator.Validator
	generator identity.Generator
	logger    arbor.ILogger
	listeners []event.Listener
	publisher *event.Publisher

	identity   *identity.Manager
	attributes *attribute.Store
}

// New creates a Service for appName.
func New(appName string, options ...Option) (*Service, error) {
	ret := &Service{appName: appName}
	if err := ret.init(options); err != nil {
		return nil, err
	}
	return ret, nil
}

// NewFromConfig creates a Service from cfg. Options are applied after the
// configuration and take precedence. A store that cannot be opened because
// it is unreachable degrades to an unavailable store instead of failing.
func NewFromConfig(ctx context.Context, cfg *Config, options ...Option) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.New(logger.Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		TimeFormat: cfg.Logging.TimeFormat,
		File:       cfg.Logging.File,
	})
	store, err := OpenStore(ctx, cfg.Store)
	if err != nil {
		if !errors.Is(err, storage.ErrUnavailable) {
			return nil, fmt.Errorf("open %s store: %w", cfg.Store.Kind, err)
		}
		store = storage.Unavailable{Reason: err}
	}
	opts := []Option{WithPrefix(cfg.Prefix), WithStore(store), WithLogger(log)}
	var validators []validator.Validator
	if cfg.Validator.Expression != "" {
		expression, err := validator.NewExpression(cfg.Validator.Expression)
		if err != nil {
			return nil, err
		}
		validators = append(validators, expression)
	}
	if cfg.Validator.URL != "" {
		validators = append(validators, validator.NewRemote(cfg.Validator.URL, cfg.Validator.Timeout))
	}
	switch len(validators) {
	case 0:
	case 1:
		opts = append(opts, WithValidator(validators[0]))
	default:
		opts = append(opts, WithValidator(validator.All(validators...)))
	}
	if cfg.Tracing.Enabled {
		opts = append(opts, WithTracing(cfg.Tracing.ServiceName, Version, cfg.Tracing.OutputFile))
	}
	return New(cfg.AppName, append(opts, options...)...)
}

func (s *Service) init(options []Option) error {
	for _, option := range options {
		option(s)
	}
	s.ensureBaseSetup()
	s.publisher = event.NewPublisher(s.listeners...)
	s.keys = keyspace.New(s.prefix)
	s.guard = storage.NewGuard(s.store, s.onUnavailable)

	idOptions := []identity.Option{
		identity.WithGenerator(s.generator),
		identity.WithValidator(s.validator),
		identity.WithPublisher(s.publisher),
	}
	attrOptions := []attribute.Option{attribute.WithPublisher(s.publisher)}
	if s.logger != nil {
		idOptions = append(idOptions, identity.WithLogger(s.logger))
		attrOptions = append(attrOptions, attribute.WithLogger(s.logger))
	}
	s.identity = identity.New(s.guard, s.keys, idOptions...)
	var err error
	if s.attributes, err = attribute.New(s.guard, s.keys, s.appName, attrOptions...); err != nil {
		return err
	}
	return nil
}

func (s *Service) ensureBaseSetup() {
	if s.store == nil {
		s.store = memory.New()
	}
	if s.generator == nil {
		generator := idgen.NewGenerator()
		generator.OnFallback = s.onEntropyFallback
		s.generator = generator
	}
}

// AppName returns the attribute namespace.
func (s *Service) AppName() string { return s.appName }

// Keys returns the key namespace.
func (s *Service) Keys() keyspace.Space { return s.keys }

// Identity returns the identity record manager.
func (s *Service) Identity() *identity.Manager { return s.identity }

// Attributes returns the attribute store of the service application.
func (s *Service) Attributes() *attribute.Store { return s.attributes }

// AttributesFor returns an attribute store for another application under
// the same prefix.
func (s *Service) AttributesFor(appName string) (*attribute.Store, error) {
	opts := []attribute.Option{attribute.WithPublisher(s.publisher)}
	if s.logger != nil {
		opts = append(opts, attribute.WithLogger(s.logger))
	}
	return attribute.New(s.guard, s.keys, appName, opts...)
}

// Subscribe registers a lifecycle event listener.
func (s *Service) Subscribe(listener event.Listener) {
	s.publisher.Subscribe(listener)
}

// GetID returns the stored identifier. When none is stored and generate is
// true one is generated, validated and persisted; otherwise "" is returned.
func (s *Service) GetID(ctx context.Context, generate bool) (id string, err error) {
	ctx, span := s.startSpan(ctx, "GetID")
	defer func() { tracing.EndSpan(span, err) }()
	return s.identity.GetID(ctx, generate)
}

// ID returns the identifier, generating it on first use.
func (s *Service) ID(ctx context.Context) (id string, err error) {
	ctx, span := s.startSpan(ctx, "ID")
	defer func() { tracing.EndSpan(span, err) }()
	return s.identity.ID(ctx)
}

// Regenerate replaces the identifier. Systems that recorded the previous
// identifier lose track of the participant.
func (s *Service) Regenerate(ctx context.Context) (id string, err error) {
	ctx, span := s.startSpan(ctx, "Regenerate")
	defer func() { tracing.EndSpan(span, err) }()
	return s.identity.Regenerate(ctx)
}

// Exists reports whether an identifier is stored.
func (s *Service) Exists(ctx context.Context) (ok bool, err error) {
	ctx, span := s.startSpan(ctx, "Exists")
	defer func() { tracing.EndSpan(span, err) }()
	return s.identity.Exists(ctx)
}

// CreatedAt returns the first generation time.
func (s *Service) CreatedAt(ctx context.Context) (ts time.Time, ok bool, err error) {
	ctx, span := s.startSpan(ctx, "CreatedAt")
	defer func() { tracing.EndSpan(span, err) }()
	return s.identity.CreatedAt(ctx)
}

// UpdatedAt returns the last regeneration time.
func (s *Service) UpdatedAt(ctx context.Context) (ts time.Time, ok bool, err error) {
	ctx, span := s.startSpan(ctx, "UpdatedAt")
	defer func() { tracing.EndSpan(span, err) }()
	return s.identity.UpdatedAt(ctx)
}

// Version returns the UUID version of the stored identifier, 0 when absent.
func (s *Service) Version(ctx context.Context) (version int, err error) {
	ctx, span := s.startSpan(ctx, "Version")
	defer func() { tracing.EndSpan(span, err) }()
	return s.identity.Version(ctx)
}

// Record returns the identity record without generating.
func (s *Service) Record(ctx context.Context) (record *identity.Record, err error) {
	ctx, span := s.startSpan(ctx, "Record")
	defer func() { tracing.EndSpan(span, err) }()
	return s.identity.Record(ctx)
}

// Delete removes the identifier and both timestamps. Attributes are kept.
func (s *Service) Delete(ctx context.Context) (err error) {
	ctx, span := s.startSpan(ctx, "Delete")
	defer func() { tracing.EndSpan(span, err) }()
	return s.identity.Delete(ctx)
}

// SetAttribute stores value under field.
func (s *Service) SetAttribute(ctx context.Context, field string, value any) (err error) {
	ctx, span := s.startSpan(ctx, "SetAttribute")
	defer func() { tracing.EndSpan(span, err) }()
	return s.attributes.Set(ctx, field, value)
}

// GetAttribute returns the value of field or def when absent. Numbers come
// back as float64; DecodeAttribute reads into a typed destination.
func (s *Service) GetAttribute(ctx context.Context, field string, def any) (value any, err error) {
	ctx, span := s.startSpan(ctx, "GetAttribute")
	defer func() { tracing.EndSpan(span, err) }()
	return s.attributes.Get(ctx, field, def)
}

// DecodeAttribute reads field into dest.
func (s *Service) DecodeAttribute(ctx context.Context, field string, dest any) (ok bool, err error) {
	ctx, span := s.startSpan(ctx, "DecodeAttribute")
	defer func() { tracing.EndSpan(span, err) }()
	return s.attributes.Decode(ctx, field, dest)
}

// AttributeExists reports whether field is stored.
func (s *Service) AttributeExists(ctx context.Context, field string) (ok bool, err error) {
	ctx, span := s.startSpan(ctx, "AttributeExists")
	defer func() { tracing.EndSpan(span, err) }()
	return s.attributes.Exists(ctx, field)
}

// DeleteAttribute removes field.
func (s *Service) DeleteAttribute(ctx context.Context, field string) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteAttribute")
	defer func() { tracing.EndSpan(span, err) }()
	return s.attributes.Delete(ctx, field)
}

// Close releases the store when it holds resources.
func (s *Service) Close() error {
	return s.guard.Close()
}

func (s *Service) startSpan(ctx context.Context, operation string) (context.Context, *tracing.Span) {
	ctx, span := tracing.StartSpan(ctx, "participant."+operation)
	span.WithAttributes(map[string]string{"prefix": s.keys.Prefix, "app": s.appName})
	return ctx, span
}

func (s *Service) onUnavailable(err error) {
	if s.logger != nil {
		s.logger.Warn().Err(err).Str("prefix", s.keys.Prefix).Msg("storage unavailable, identifier will not persist")
	}
	s.publisher.Emit(&event.Context{Prefix: s.keys.Prefix, AppName: s.appName, EventType: event.StorageUnavailable}, err, nil)
}

func (s *Service) onEntropyFallback(err error) {
	if s.logger != nil {
		s.logger.Warn().Err(err).Msg("secure random source failed, using pseudo-random fallback")
	}
	s.publisher.Emit(&event.Context{Prefix: s.keys.Prefix, AppName: s.appName, EventType: event.EntropyFallback}, err, nil)
}
