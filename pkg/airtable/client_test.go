package airtable

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hashtagsync/pkg/config"
	"hashtagsync/pkg/errors"
	"hashtagsync/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.AirtableConfig{
		Token:      "pat_test_token",
		BaseID:     "appTESTBASE",
		TagsTable:  config.DefaultTagsTable,
		PostsTable: config.DefaultPostsTable,
		BaseURL:    server.URL,
	}
	return NewClient(cfg, 5*time.Second, logger.NewTestLogger())
}

func TestListActiveTags(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/appTESTBASE/Hashtags", r.URL.Path)
		assert.Equal(t, "Bearer pat_test_token", r.Header.Get("Authorization"))

		query := r.URL.Query()
		assert.Equal(t, "{Active}", query.Get("filterByFormula"))
		assert.Equal(t, FieldTagName, query.Get("fields[]"))
		assert.Equal(t, "100", query.Get("pageSize"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"records": [
				{"id": "recAAA", "fields": {"Tagname": "sunset"}},
				{"id": "recBBB", "fields": {}},
				{"id": "recCCC", "fields": {"Tagname": "goldenhour"}}
			]
		}`))
	})

	tags, err := client.ListActiveTags()

	require.NoError(t, err)
	require.Len(t, tags, 2, "rows without a name are dropped")
	assert.Equal(t, Tag{ID: "recAAA", Name: "sunset", Active: true}, tags[0])
	assert.Equal(t, Tag{ID: "recCCC", Name: "goldenhour", Active: true}, tags[1])
}

func TestListActiveTagsQueryError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error": {"type": "AUTHENTICATION_REQUIRED"}}`))
	})

	tags, err := client.ListActiveTags()

	require.Error(t, err)
	assert.Nil(t, tags)

	var apiErr *errors.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errors.ErrorTypeStoreQuery, apiErr.Type)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Code)
}

func TestFindTagByName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		assert.Equal(t, "LOWER({Tagname}) = LOWER('Sunset')", query.Get("filterByFormula"))
		assert.Equal(t, "1", query.Get("maxRecords"))

		w.Write([]byte(`{"records": [{"id": "recAAA", "fields": {"Tagname": "sunset", "Active": true}}]}`))
	})

	tag, err := client.FindTagByName("Sunset")

	require.NoError(t, err)
	require.NotNil(t, tag)
	assert.Equal(t, "recAAA", tag.ID)
	assert.Equal(t, "sunset", tag.Name)
	assert.True(t, tag.Active)
}

func TestFindTagByNameNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"records": []}`))
	})

	tag, err := client.FindTagByName("nosuchtag")

	require.NoError(t, err, "a miss is not an error")
	assert.Nil(t, tag)
}

func TestFindTagByNameQuotesValue(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, `LOWER({Tagname}) = LOWER('o\'clock')`, r.URL.Query().Get("filterByFormula"))
		w.Write([]byte(`{"records": []}`))
	})

	_, err := client.FindTagByName("o'clock")
	require.NoError(t, err)
}

func TestCreateTag(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/appTESTBASE/Hashtags", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)

		var payload map[string]interface{}
		assert.NoError(t, json.Unmarshal(body, &payload))
		assert.Equal(t, true, payload["typecast"])

		records := payload["records"].([]interface{})
		assert.Len(t, records, 1)
		entry := records[0].(map[string]interface{})
		_, hasID := entry["id"]
		assert.False(t, hasID, "create must not carry a record id")
		fields := entry["fields"].(map[string]interface{})
		assert.Equal(t, "sunset", fields[FieldTagName])
		assert.Equal(t, true, fields[FieldActive])

		w.Write([]byte(`{"records": [{"id": "recNEW", "fields": {"Tagname": "sunset", "Active": true}}]}`))
	})

	tag, err := client.CreateTag("sunset")

	require.NoError(t, err)
	assert.Equal(t, &Tag{ID: "recNEW", Name: "sunset", Active: true}, tag)
}

func TestFindPostByMediaID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/appTESTBASE/HashtagPosts", r.URL.Path)
		assert.Equal(t, "{MediaID} = '18043254829'", r.URL.Query().Get("filterByFormula"))

		w.Write([]byte(`{
			"records": [{
				"id": "recPOST",
				"fields": {
					"MediaID": "18043254829",
					"LikeCount": 5,
					"Hashtag(s)": ["recAAA", "recBBB"]
				}
			}]
		}`))
	})

	rec, err := client.FindPostByMediaID("18043254829")

	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "recPOST", rec.ID)
	assert.Equal(t, "18043254829", rec.StringField(FieldMediaID))
	assert.Equal(t, []string{"recAAA", "recBBB"}, rec.LinkedIDs(FieldHashtags))
}

func TestFindPostByMediaIDNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"records": []}`))
	})

	rec, err := client.FindPostByMediaID("404")

	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestCreatePost(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/appTESTBASE/HashtagPosts", r.URL.Path)

		var payload map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, true, payload["typecast"])

		w.Write([]byte(`{"records": [{"id": "recCREATED", "fields": {}}]}`))
	})

	id, err := client.CreatePost(Fields{FieldMediaID: "18043254829"})

	require.NoError(t, err)
	assert.Equal(t, "recCREATED", id)
}

func TestUpdatePost(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)

		var payload map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		records := payload["records"].([]interface{})
		assert.Len(t, records, 1)
		entry := records[0].(map[string]interface{})
		assert.Equal(t, "recPOST", entry["id"])

		fields := entry["fields"].(map[string]interface{})
		assert.Equal(t, float64(530), fields[FieldScore])
		_, hasLinks := fields[FieldHashtags]
		assert.False(t, hasLinks, "partial update must only carry the fields given")

		w.Write([]byte(`{"records": [{"id": "recPOST", "fields": {}}]}`))
	})

	err := client.UpdatePost("recPOST", Fields{FieldScore: 530})
	require.NoError(t, err)
}

func TestUpdatePostWriteError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error": {"type": "INVALID_VALUE_FOR_COLUMN"}}`))
	})

	err := client.UpdatePost("recPOST", Fields{FieldScore: 530})

	require.Error(t, err)
	var apiErr *errors.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errors.ErrorTypeStoreWrite, apiErr.Type)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.Code)
}

func TestTableURLEscapesTableName(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{"records": []}`))
	})
	client.postsTable = "Hashtag Posts"

	_, err := client.FindPostByMediaID("1")

	require.NoError(t, err)
	assert.Equal(t, "/appTESTBASE/Hashtag%20Posts", gotPath)
}
