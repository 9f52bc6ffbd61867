package wpnative

import (
	"context"
	"log/slog"

	"github.com/asaidimu/sqlresource/pkg/core"
)

// PostAPI is the native post API: wp_insert_post and wp_update_post.
type PostAPI interface {
	InsertPost(ctx context.Context, post PostData) (int64, error)
	UpdatePost(ctx context.Context, post PostData) (int64, error)
}

// Model inserts and updates posts through a PostAPI.
type Model struct {
	api     PostAPI
	fields  []string
	idField string
	metaKey string
	logger  *slog.Logger
}

// Option configures a Model.
type Option func(*Model)

// WithFields sets the post field keys. Other keys become meta.
func WithFields(fields ...string) Option {
	return func(m *Model) { m.fields = fields }
}

// WithIDField sets the name of the post ID field.
func WithIDField(name string) Option {
	return func(m *Model) { m.idField = name }
}

// WithMetaKey sets the key meta values are passed under.
func WithMetaKey(key string) Option {
	return func(m *Model) { m.metaKey = key }
}

// WithLogger sets the model's logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// New returns a model over api.
func New(api PostAPI, opts ...Option) (*Model, error) {
	m := &Model{
		api:     api,
		fields:  DefaultPostFields,
		idField: DefaultIDField,
		metaKey: DefaultMetaKey,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	if api == nil {
		return nil, core.NewInvalidArgumentError("post API is nil", nil, nil)
	}
	return m, nil
}

// PostData normalizes a record to the post API's argument.
func (m *Model) PostData(c core.Container) (PostData, error) {
	return NormalizePostData(c, m.fields, m.metaKey)
}

// Insert creates one post per record and returns the new IDs. It stops at
// the first failure; posts created before it remain.
func (m *Model) Insert(ctx context.Context, posts ...core.Container) ([]int64, error) {
	ids := make([]int64, 0, len(posts))
	for _, p := range posts {
		data, err := m.PostData(p)
		if err != nil {
			return ids, err
		}
		id, err := m.api.InsertPost(ctx, data)
		if err != nil {
			return ids, wrapAPIError("insert", err)
		}
		m.logger.DebugContext(ctx, "inserted post", "id", id)
		ids = append(ids, id)
	}
	return ids, nil
}

// Update applies changes to the posts condition selects, one API call per
// ID. Without a condition the change set must hold the post ID. Calls run in
// order and are not rolled back: a failure returns a *PartialUpdateError.
func (m *Model) Update(ctx context.Context, changes core.Container, condition *core.Expression) error {
	ids, err := m.targetIDs(changes, condition)
	if err != nil {
		return err
	}
	data, err := m.PostData(changes)
	if err != nil {
		return err
	}

	applied := make([]any, 0, len(ids))
	for i, id := range ids {
		post := data.Clone(m.metaKey)
		post[m.idField] = id
		if _, err := m.api.UpdatePost(ctx, post); err != nil {
			m.logger.ErrorContext(ctx, "post update failed", "id", id, "applied", len(applied), "error", err)
			return &PartialUpdateError{
				Applied: applied,
				Failed:  id,
				Skipped: append([]any(nil), ids[i+1:]...),
				Cause:   err,
			}
		}
		applied = append(applied, id)
	}
	m.logger.DebugContext(ctx, "updated posts", "count", len(applied))
	return nil
}

func (m *Model) targetIDs(changes core.Container, condition *core.Expression) ([]any, error) {
	if condition != nil {
		return ExtractPostIDs(condition, m.idField)
	}
	if !core.ContainerHas(changes, m.idField) {
		return nil, core.NewInvalidArgumentError("change set or condition must have an ID", nil, condition)
	}
	id, err := core.ContainerGet(changes, m.idField)
	if err != nil {
		return nil, err
	}
	return []any{id}, nil
}
