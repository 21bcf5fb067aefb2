package resource

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/activerest/activerest/conn"
	"github.com/activerest/activerest/conn/conntest"
	"github.com/activerest/activerest/registry"
)

var authorSchema = &Schema{
	Name: "Author",
	Path: "authors",
}

var commentSchema = &Schema{
	Name: "Comment",
	Path: "comments",
	Relations: map[string]Relation{
		"author": IncludesOne(authorSchema),
	},
}

var postSchema = &Schema{
	Name:     "Post",
	Path:     "posts",
	ReadOnly: []string{"created_at"},
	Exclude:  []string{"view_count"},
	Relations: map[string]Relation{
		"author":   IncludesOne(authorSchema),
		"comments": IncludesMany(commentSchema),
	},
}

func newTestRegistry(transport *conntest.Transport, props *conn.Props) *registry.Registry {
	if props == nil {
		p := conn.DefaultProps()
		props = &p
	}

	reg := registry.New()
	reg.Add(registry.DefaultName, conntest.NewConnection(props, transport))
	return reg
}

func TestModelGetSetShadowsStable(t *testing.T) {
	m := NewModel(postSchema, nil)
	require.NoError(t, m.Hydrate(map[string]interface{}{
		"id":    float64(7),
		"title": "original",
	}))

	assert.False(t, m.IsDirty())
	assert.Equal(t, "original", m.Get("title"))

	m.Set("title", "changed")
	assert.True(t, m.IsDirty())
	assert.Equal(t, "changed", m.Get("title"))
	assert.Equal(t, "original", m.Original("title"))

	m.Reset()
	assert.False(t, m.IsDirty())
	assert.Equal(t, "original", m.Get("title"))
}

func TestModelSetReadOnlyIgnored(t *testing.T) {
	m := NewModel(postSchema, nil)
	require.NoError(t, m.Hydrate(map[string]interface{}{
		"created_at": "2020-01-01",
	}))

	m.Set("created_at", "2021-01-01")
	assert.False(t, m.IsDirty())
	assert.Equal(t, "2020-01-01", m.Get("created_at"))
}

func TestModelFillRespectsFillableAndReadOnly(t *testing.T) {
	schema := &Schema{
		Name:     "Post",
		Path:     "posts",
		ReadOnly: []string{"created_at"},
		Fillable: []string{"title", "body", "created_at"},
	}

	m := NewModel(schema, nil)
	m.Fill(map[string]interface{}{
		"title":      "a title",
		"body":       "a body",
		"secret":     "not fillable",
		"created_at": "still read only",
	})

	assert.Equal(t, "a title", m.Get("title"))
	assert.Equal(t, "a body", m.Get("body"))
	assert.Nil(t, m.Get("secret"))
	assert.Nil(t, m.Get("created_at"))
}

func TestModelFillToMapRoundTrip(t *testing.T) {
	schema := &Schema{Name: "Note", Path: "notes"}

	src := NewModel(schema, nil)
	src.Set("title", "a")
	src.Set("body", "b")
	src.Set("stars", float64(3))

	dst := NewModel(schema, nil)
	dst.Fill(src.ToMap())

	assert.Equal(t, src.ToMap(), dst.ToMap())
}

func TestModelToMapMergesModifiedOverStable(t *testing.T) {
	m := NewModel(postSchema, nil)
	require.NoError(t, m.Hydrate(map[string]interface{}{
		"id":    float64(7),
		"title": "original",
	}))
	m.Set("title", "changed")
	m.Set("body", "added")

	assert.Equal(t, map[string]interface{}{
		"id":    float64(7),
		"title": "changed",
		"body":  "added",
	}, m.ToMap())
}

func TestModelIdentifier(t *testing.T) {
	m := NewModel(postSchema, nil)
	_, ok := m.Identifier()
	assert.False(t, ok)

	m.Set("id", "")
	_, ok = m.Identifier()
	assert.False(t, ok)

	m.Set("id", float64(7))
	id, ok := m.Identifier()
	assert.True(t, ok)
	assert.Equal(t, float64(7), id)
}

func TestModelThroughComposesURI(t *testing.T) {
	comment := NewModel(commentSchema, nil)
	require.NoError(t, comment.Through("posts/1234"))
	assert.Equal(t, "posts/1234/comments", comment.ResourceURI())

	comment.Set("id", float64(7))
	assert.Equal(t, "posts/1234/comments/7", comment.ResourceURI())
}

func TestModelThroughModelParent(t *testing.T) {
	post := NewModel(postSchema, nil)
	post.Set("id", "1234")

	comment := NewModel(commentSchema, nil)
	require.NoError(t, comment.Through(post))
	assert.Equal(t, "posts/1234/comments", comment.ResourceURI())
}

func TestModelThroughIdempotent(t *testing.T) {
	comment := NewModel(commentSchema, nil)
	require.NoError(t, comment.Through("posts/1234"))
	require.NoError(t, comment.Through("posts/1234"))

	assert.Equal(t, "posts/1234/comments", comment.ResourceURI())
}

func TestModelThroughRejectsUnknownParent(t *testing.T) {
	comment := NewModel(commentSchema, nil)
	err := comment.Through(42)
	assert.Error(t, err)
	assert.IsType(t, ErrInvalidParent{}, err)
}

func TestModelHydrateResolvesRelations(t *testing.T) {
	m := NewModel(postSchema, nil)
	require.NoError(t, m.Hydrate(map[string]interface{}{
		"id":    float64(1),
		"title": "hello",
		"author": map[string]interface{}{
			"id":   float64(10),
			"name": "ada",
		},
		"comments": []interface{}{
			map[string]interface{}{
				"id":   float64(100),
				"text": "first",
				"author": map[string]interface{}{
					"id":   float64(11),
					"name": "brian",
				},
			},
			map[string]interface{}{
				"id":   float64(101),
				"text": "second",
			},
		},
	}))

	author, ok := m.Get("author").(*Model)
	require.True(t, ok)
	assert.Equal(t, "ada", author.Get("name"))
	assert.Equal(t, authorSchema, author.Schema())

	comments, ok := m.Get("comments").(*Collection)
	require.True(t, ok)
	require.Equal(t, 2, comments.Len())
	assert.Equal(t, "first", comments.At(0).Get("text"))

	nested, ok := comments.At(0).Get("author").(*Model)
	require.True(t, ok)
	assert.Equal(t, "brian", nested.Get("name"))
}

func TestModelHydrateNullableRelations(t *testing.T) {
	m := NewModel(postSchema, nil)
	require.NoError(t, m.Hydrate(map[string]interface{}{
		"author":   nil,
		"comments": nil,
	}))

	assert.Nil(t, m.Get("author"))

	comments, ok := m.Get("comments").(*Collection)
	require.True(t, ok)
	assert.Equal(t, 0, comments.Len())
	assert.Nil(t, comments.First())
}

func TestModelHydrateInvalidInput(t *testing.T) {
	m := NewModel(postSchema, nil)

	assert.NoError(t, m.Hydrate(nil))
	assert.Error(t, m.Hydrate("not an object"))
	assert.Error(t, m.Hydrate(map[string]interface{}{
		"comments": "not a list",
	}))
}

func TestModelSaveCreatePostsToCollection(t *testing.T) {
	transport := conntest.NewTransport(conntest.RoundTrip{
		Response: conntest.JSONResponse(201, `{"id": 42, "title": "hello", "created_at": "2020-01-01"}`),
	})
	reg := newTestRegistry(transport, nil)

	m := NewModel(postSchema, reg)
	m.Set("title", "hello")
	m.Set("view_count", float64(9))

	ok, err := m.Save(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, ok)

	req := transport.LastRequest()
	require.NotNil(t, req)
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "posts", req.URI)
	assert.JSONEq(t, `{"title": "hello"}`, string(req.Body))

	assert.False(t, m.IsDirty())
	assert.Equal(t, float64(42), m.Get("id"))
	assert.Equal(t, "2020-01-01", m.Get("created_at"))
}

func TestModelSaveUpdateUsesUpdateMethod(t *testing.T) {
	transport := conntest.NewTransport(conntest.RoundTrip{
		Response: conntest.JSONResponse(200, `{"id": 7, "title": "changed"}`),
	})
	reg := newTestRegistry(transport, nil)

	m := NewModel(postSchema, reg)
	require.NoError(t, m.Hydrate(map[string]interface{}{
		"id":    float64(7),
		"title": "original",
		"body":  "unchanged",
	}))
	m.Set("title", "changed")

	ok, err := m.Save(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, ok)

	req := transport.LastRequest()
	assert.Equal(t, "PUT", req.Method)
	assert.Equal(t, "posts/7", req.URI)
	assert.JSONEq(t, `{"id": 7, "title": "changed", "body": "unchanged"}`, string(req.Body))
}

func TestModelSaveFullSetSerializesRelations(t *testing.T) {
	transport := conntest.NewTransport(conntest.RoundTrip{
		Response: conntest.JSONResponse(200, `{}`),
	})
	reg := newTestRegistry(transport, nil)

	m := NewModel(postSchema, reg)
	require.NoError(t, m.Hydrate(map[string]interface{}{
		"id":    float64(7),
		"title": "original",
		"author": map[string]interface{}{
			"id":   float64(10),
			"name": "ada",
		},
		"comments": []interface{}{
			map[string]interface{}{"id": float64(1), "text": "first"},
		},
	}))
	m.Set("title", "changed")

	ok, err := m.Save(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, ok)

	// relations encode back to the shapes they were hydrated from
	assert.JSONEq(t, `{
		"id": 7,
		"title": "changed",
		"author": {"id": 10, "name": "ada"},
		"comments": [{"id": 1, "text": "first"}]
	}`, string(transport.LastRequest().Body))
}

func TestModelSaveUpdateDiffSendsOnlyModified(t *testing.T) {
	transport := conntest.NewTransport(conntest.RoundTrip{
		Response: conntest.JSONResponse(200, `{}`),
	})
	props := conn.DefaultProps()
	props.UpdateMethod = "PATCH"
	props.UpdateDiff = true
	reg := newTestRegistry(transport, &props)

	m := NewModel(postSchema, reg)
	require.NoError(t, m.Hydrate(map[string]interface{}{
		"id":    float64(7),
		"title": "original",
		"body":  "unchanged",
	}))
	m.Set("title", "changed")

	ok, err := m.Save(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, ok)

	req := transport.LastRequest()
	assert.Equal(t, "PATCH", req.Method)
	assert.JSONEq(t, `{"title": "changed"}`, string(req.Body))
}

func TestModelSaveEmptyResponseBody(t *testing.T) {
	transport := conntest.NewTransport(conntest.RoundTrip{
		Response: &conn.Response{StatusCode: 204},
	})
	reg := newTestRegistry(transport, nil)

	m := NewModel(postSchema, reg)
	require.NoError(t, m.Hydrate(map[string]interface{}{"id": float64(7)}))
	m.Set("title", "changed")

	ok, err := m.Save(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, ok)

	// pending modifications became stable even without a payload
	assert.False(t, m.IsDirty())
	assert.Equal(t, "changed", m.Original("title"))
}

func TestModelSaveUnsuccessfulResponse(t *testing.T) {
	transport := conntest.NewTransport(conntest.RoundTrip{
		Response: conntest.JSONResponse(409, `{"error": "conflict"}`),
	})
	reg := newTestRegistry(transport, nil)

	m := NewModel(postSchema, reg)
	m.Set("title", "hello")

	ok, err := m.Save(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, ok)

	// modifications stay pending and the response is inspectable
	assert.True(t, m.IsDirty())
	require.NotNil(t, m.LastResponse())
	assert.Equal(t, 409, m.LastResponse().StatusCode)
}

func TestModelSaveThrowingConnection(t *testing.T) {
	transport := conntest.NewTransport(conntest.RoundTrip{
		Response: conntest.JSONResponse(409, `{"error": "conflict"}`),
	})
	props := conn.DefaultProps()
	props.ThrowOn4xx = true
	reg := newTestRegistry(transport, &props)

	m := NewModel(postSchema, reg)
	m.Set("title", "hello")

	ok, err := m.Save(context.Background(), nil)
	assert.Error(t, err)
	assert.False(t, ok)
	require.NotNil(t, m.LastResponse())
	assert.Equal(t, 409, m.LastResponse().StatusCode)
}

func TestModelSaveWithoutConnection(t *testing.T) {
	m := NewModel(postSchema, registry.New())
	m.Set("title", "hello")

	_, err := m.Save(context.Background(), nil)
	assert.Error(t, err)
	assert.IsType(t, registry.ErrConnectionNotFound{}, err)
}

func TestModelDestroy(t *testing.T) {
	transport := conntest.NewTransport(conntest.RoundTrip{
		Response: &conn.Response{StatusCode: 204},
	})
	reg := newTestRegistry(transport, nil)

	m := NewModel(postSchema, reg)
	require.NoError(t, m.Hydrate(map[string]interface{}{"id": float64(7)}))

	ok, err := m.Destroy(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, ok)

	req := transport.LastRequest()
	assert.Equal(t, "DELETE", req.Method)
	assert.Equal(t, "posts/7", req.URI)
	assert.Empty(t, req.Body)
}

func TestModelDestroyUnsuccessfulResponse(t *testing.T) {
	transport := conntest.NewTransport(conntest.RoundTrip{
		Response: conntest.JSONResponse(409, `{"error": "conflict"}`),
	})
	reg := newTestRegistry(transport, nil)

	m := NewModel(postSchema, reg)
	require.NoError(t, m.Hydrate(map[string]interface{}{"id": float64(7)}))

	ok, err := m.Destroy(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 409, m.LastResponse().StatusCode)
}

func TestModelDestroyWithoutIdentifier(t *testing.T) {
	transport := conntest.NewTransport()
	reg := newTestRegistry(transport, nil)

	m := NewModel(postSchema, reg)
	_, err := m.Destroy(context.Background(), nil)
	assert.Error(t, err)
	assert.IsType(t, ErrMissingIdentifier{}, err)
	assert.Nil(t, transport.LastRequest())
}
