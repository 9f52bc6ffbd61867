package wpnative

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/asaidimu/sqlresource/pkg/core"
	"github.com/asaidimu/sqlresource/pkg/sqldb"
)

// SQLPostAPI implements PostAPI on the posts and postmeta tables of a
// WordPress database, for use outside of WordPress.
type SQLPostAPI struct {
	db      sqldb.ExecQuerier
	prefix  string
	dialect sqldb.Dialect
	fields  []string
	idField string
	metaKey string
	logger  *slog.Logger

	meta *sqldb.Model
}

// NewSQLPostAPI returns a post API over prefix+"posts" and prefix+"postmeta".
func NewSQLPostAPI(db sqldb.ExecQuerier, prefix string, dialect sqldb.Dialect, logger *slog.Logger) (*SQLPostAPI, error) {
	if logger == nil {
		logger = slog.Default()
	}
	meta, err := sqldb.New(db, prefix+"postmeta",
		core.NewColumnMap("post_id", "post_id", "meta_key", "meta_key", "meta_value", "meta_value"),
		sqldb.WithDialect(dialect), sqldb.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &SQLPostAPI{
		db:      db,
		prefix:  prefix,
		dialect: dialect,
		fields:  DefaultPostFields,
		idField: DefaultIDField,
		metaKey: DefaultMetaKey,
		logger:  logger,
		meta:    meta,
	}, nil
}

// InsertPost inserts a post row and its meta rows. It returns the ID given in
// post, or the generated one.
func (a *SQLPostAPI) InsertPost(ctx context.Context, post PostData) (int64, error) {
	rec := a.postRecord(post, true)
	posts, err := a.postsModel(rec)
	if err != nil {
		return 0, err
	}
	res, err := posts.Insert(ctx, rec)
	if err != nil {
		return 0, err
	}
	id, ok := toInt64(post[a.idField])
	if !ok {
		if id, err = res.LastInsertId(); err != nil {
			return 0, fmt.Errorf("failed to read post ID: %w", err)
		}
	}
	if err := a.writeMeta(ctx, id, post.Meta(a.metaKey)); err != nil {
		return id, err
	}
	return id, nil
}

// UpdatePost updates the post's fields and replaces the given meta keys.
func (a *SQLPostAPI) UpdatePost(ctx context.Context, post PostData) (int64, error) {
	id, ok := toInt64(post[a.idField])
	if !ok {
		return 0, core.NewInvalidArgumentError("post ID is missing or not an integer", nil, post[a.idField])
	}
	rec := a.postRecord(post, false)
	if len(rec) > 0 {
		posts, err := a.postsModel(rec)
		if err != nil {
			return 0, err
		}
		if _, err := posts.Update(ctx, rec, core.EqualTo(a.idField, id)); err != nil {
			return 0, err
		}
	}
	if err := a.writeMeta(ctx, id, post.Meta(a.metaKey)); err != nil {
		return id, err
	}
	return id, nil
}

// postRecord returns the post fields of post, with or without the ID.
func (a *SQLPostAPI) postRecord(post PostData, withID bool) core.Record {
	rec := core.Record{}
	for _, f := range a.fields {
		if f == a.idField && !withID {
			continue
		}
		if v, ok := post[f]; ok {
			rec[f] = v
		}
	}
	return rec
}

// postsModel returns a posts model mapping only the fields rec holds, so that
// every inserted row is complete.
func (a *SQLPostAPI) postsModel(rec core.Record) (*sqldb.Model, error) {
	cols := core.NewColumnMap()
	for _, f := range a.fields {
		if rec.Has(f) {
			cols.Set(f, f)
		}
	}
	return sqldb.New(a.db, a.prefix+"posts", cols, sqldb.WithDialect(a.dialect), sqldb.WithLogger(a.logger))
}

func (a *SQLPostAPI) writeMeta(ctx context.Context, id int64, meta map[string]any) error {
	if len(meta) == 0 {
		return nil
	}
	keys := core.Record(meta).Keys()
	if _, err := a.meta.Delete(ctx, core.And(core.EqualTo("post_id", id), core.In("meta_key", anySlice(keys)...))); err != nil {
		return err
	}
	rows := make([]core.Container, 0, len(keys))
	for _, k := range keys {
		v := meta[k]
		if v != nil {
			s, err := core.NormalizeString(v)
			if err != nil {
				return err
			}
			v = s
		}
		rows = append(rows, core.Record{"post_id": id, "meta_key": k, "meta_value": v})
	}
	_, err := a.meta.Insert(ctx, rows...)
	return err
}

func anySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

var _ PostAPI = (*SQLPostAPI)(nil)
