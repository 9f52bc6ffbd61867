// Package wpnative implements resource models over the WordPress post API,
// which creates and updates one post at a time.
package wpnative

import (
	"maps"

	"github.com/asaidimu/sqlresource/pkg/core"
)

// Post data keys.
const (
	DefaultIDField  = "ID"
	DefaultMetaKey  = "meta_input"
	maxBetweenRange = 10000
)

// DefaultPostFields are the post columns wp_insert_post accepts.
var DefaultPostFields = []string{
	"ID",
	"post_author",
	"post_date",
	"post_date_gmt",
	"post_content",
	"post_content_filtered",
	"post_title",
	"post_excerpt",
	"post_status",
	"post_type",
	"comment_status",
	"ping_status",
	"post_password",
	"post_name",
	"to_ping",
	"pinged",
	"post_modified",
	"post_modified_gmt",
	"post_parent",
	"menu_order",
	"post_mime_type",
	"guid",
}

// PostData is the argument of an insert or update post call. Meta values are
// kept under the meta key as a map[string]any.
type PostData map[string]any

// Meta returns the meta values of p.
func (p PostData) Meta(key string) map[string]any {
	m, _ := p[key].(map[string]any)
	return m
}

// Clone returns a copy of p. The meta map is copied as well.
func (p PostData) Clone(metaKey string) PostData {
	out := maps.Clone(p)
	if m := p.Meta(metaKey); m != nil {
		out[metaKey] = maps.Clone(m)
	}
	return out
}

// NormalizePostData copies the known post fields of c into a PostData. When c
// can be enumerated, every other key is collected as meta under metaKey;
// otherwise meta is left out.
func NormalizePostData(c core.Container, fields []string, metaKey string) (PostData, error) {
	data := PostData{}
	known := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		known[f] = struct{}{}
		if !core.ContainerHas(c, f) {
			continue
		}
		v, err := core.ContainerGet(c, f)
		if err != nil {
			return nil, err
		}
		data[f] = v
	}

	e, ok := c.(core.Enumerable)
	if !ok {
		return data, nil
	}
	meta := map[string]any{}
	for _, k := range e.Keys() {
		if _, isField := known[k]; isField {
			continue
		}
		v, err := e.Get(k)
		if err != nil {
			return nil, err
		}
		meta[k] = v
	}
	data[metaKey] = meta
	return data, nil
}
