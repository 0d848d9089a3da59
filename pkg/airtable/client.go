package airtable

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"hashtagsync/pkg/config"
	"hashtagsync/pkg/errors"
	"hashtagsync/pkg/logger"
)

// Client is a typed client for the two tables the sync run touches
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	tagsTable  string
	postsTable string
	logger     logger.Logger
}

// NewClient creates a new Airtable client scoped to one base
func NewClient(cfg *config.AirtableConfig, timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/") + "/" + cfg.BaseID,
		token:      cfg.Token,
		tagsTable:  cfg.TagsTable,
		postsTable: cfg.PostsTable,
		logger:     log,
	}
}

// tableURL builds the endpoint URL for a table
func (c *Client) tableURL(table string) string {
	return c.baseURL + "/" + url.PathEscape(table)
}

// selectRecords queries a table with the given parameters
func (c *Client) selectRecords(table string, params url.Values) (*recordList, error) {
	endpoint := c.tableURL(table) + "?" + params.Encode()

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeStoreQuery, 0, "failed to create request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	c.logger.DebugWithFields("querying table", map[string]interface{}{
		"table":  table,
		"params": params.Encode(),
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeNetwork, 0, "airtable select %s: %v", table, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeNetwork, resp.StatusCode, "airtable select %s: reading body: %v", table, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.ErrorTypeStoreQuery, resp.StatusCode, "airtable select %s: %s", table, strings.TrimSpace(string(body)))
	}

	var list recordList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, errors.New(errors.ErrorTypeParsing, resp.StatusCode, "airtable select %s: %v", table, err)
	}

	return &list, nil
}

// writeRecord creates (POST, empty id) or partially updates (PATCH) one record
func (c *Client) writeRecord(method, table, id string, fields Fields) (*Record, error) {
	payload := writePayload{
		Records:  []recordEntry{{ID: id, Fields: fields}},
		Typecast: true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeStoreWrite, 0, "failed to encode payload: %v", err)
	}

	req, err := http.NewRequest(method, c.tableURL(table), bytes.NewReader(body))
	if err != nil {
		return nil, errors.New(errors.ErrorTypeStoreWrite, 0, "failed to create request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeNetwork, 0, "airtable %s %s: %v", method, table, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeNetwork, resp.StatusCode, "airtable %s %s: reading body: %v", method, table, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.New(errors.ErrorTypeStoreWrite, resp.StatusCode, "airtable %s %s: %s", method, table, strings.TrimSpace(string(respBody)))
	}

	var list recordList
	if err := json.Unmarshal(respBody, &list); err != nil {
		return nil, errors.New(errors.ErrorTypeParsing, resp.StatusCode, "airtable %s %s: %v", method, table, err)
	}
	if len(list.Records) == 0 {
		return nil, errors.New(errors.ErrorTypeStoreWrite, resp.StatusCode, "airtable %s %s: empty response", method, table)
	}

	return &list.Records[0], nil
}

// ListActiveTags returns the tags whose Active checkbox is set, in table
// order. Rows without a name are dropped. A single page is enough for the
// expected table size.
func (c *Client) ListActiveTags() ([]Tag, error) {
	params := url.Values{}
	params.Set("filterByFormula", TruthyFormula(FieldActive))
	params.Add("fields[]", FieldTagName)
	params.Set("pageSize", "100")

	list, err := c.selectRecords(c.tagsTable, params)
	if err != nil {
		return nil, err
	}

	tags := make([]Tag, 0, len(list.Records))
	for _, rec := range list.Records {
		name := rec.StringField(FieldTagName)
		if name == "" {
			continue
		}
		tags = append(tags, Tag{ID: rec.ID, Name: name, Active: true})
	}

	return tags, nil
}

// FindTagByName looks up a tag by name, case-insensitively. Returns (nil, nil)
// when no tag matches.
func (c *Client) FindTagByName(name string) (*Tag, error) {
	params := url.Values{}
	params.Set("filterByFormula", EqualsFoldFormula(FieldTagName, name))
	params.Set("maxRecords", "1")

	list, err := c.selectRecords(c.tagsTable, params)
	if err != nil {
		return nil, err
	}
	if len(list.Records) == 0 {
		return nil, nil
	}

	rec := list.Records[0]
	return &Tag{
		ID:     rec.ID,
		Name:   rec.StringField(FieldTagName),
		Active: rec.BoolField(FieldActive),
	}, nil
}

// CreateTag creates an active tag record and returns it with its assigned id
func (c *Client) CreateTag(name string) (*Tag, error) {
	rec, err := c.writeRecord(http.MethodPost, c.tagsTable, "", Fields{
		FieldTagName: name,
		FieldActive:  true,
	})
	if err != nil {
		return nil, err
	}

	c.logger.InfoWithFields("tag record created", map[string]interface{}{
		"tag":       name,
		"record_id": rec.ID,
	})

	return &Tag{ID: rec.ID, Name: name, Active: true}, nil
}

// FindPostByMediaID looks up a post record by its unique media identifier.
// Returns (nil, nil) when no record exists for the id.
func (c *Client) FindPostByMediaID(mediaID string) (*Record, error) {
	params := url.Values{}
	params.Set("filterByFormula", EqualsFormula(FieldMediaID, mediaID))
	params.Set("maxRecords", "1")

	list, err := c.selectRecords(c.postsTable, params)
	if err != nil {
		return nil, err
	}
	if len(list.Records) == 0 {
		return nil, nil
	}

	return &list.Records[0], nil
}

// CreatePost inserts a new post record and returns its assigned id
func (c *Client) CreatePost(fields Fields) (string, error) {
	rec, err := c.writeRecord(http.MethodPost, c.postsTable, "", fields)
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// UpdatePost partially updates a post record. Fields absent from the map are
// left untouched by the store.
func (c *Client) UpdatePost(id string, fields Fields) error {
	_, err := c.writeRecord(http.MethodPatch, c.postsTable, id, fields)
	return err
}

// String describes the client's target base for log lines
func (c *Client) String() string {
	return fmt.Sprintf("airtable base %s (tags=%s posts=%s)", c.baseURL, c.tagsTable, c.postsTable)
}
