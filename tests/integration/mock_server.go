package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// MockGraphServer simulates the Instagram Graph API hashtag endpoints
type MockGraphServer struct {
	server       *httptest.Server
	mu           sync.RWMutex
	hashtags     map[string]string                   // tag name -> hashtag id
	media        map[string][]map[string]interface{} // hashtag id -> media items
	errorCodes   map[string]int                      // tag name -> forced status
	requestCount int32
}

// NewMockGraphServer creates a mock Graph API server
func NewMockGraphServer() *MockGraphServer {
	m := &MockGraphServer{
		hashtags:   make(map[string]string),
		media:      make(map[string][]map[string]interface{}),
		errorCodes: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v23.0/ig_hashtag_search", m.handleSearch)
	mux.HandleFunc("/", m.handleMedia)

	m.server = httptest.NewServer(mux)
	return m
}

// GetURL returns the mock server's base URL
func (m *MockGraphServer) GetURL() string {
	return m.server.URL
}

// Close shuts down the mock server
func (m *MockGraphServer) Close() {
	m.server.Close()
}

// AddHashtag registers a resolvable hashtag
func (m *MockGraphServer) AddHashtag(name, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hashtags[name] = id
}

// AddMedia registers a media item under a hashtag id
func (m *MockGraphServer) AddMedia(hashtagID string, item map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.media[hashtagID] = append(m.media[hashtagID], item)
}

// SetSearchError forces an error status for one tag's search
func (m *MockGraphServer) SetSearchError(tag string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCodes[tag] = status
}

// GetRequestCount returns the number of requests served
func (m *MockGraphServer) GetRequestCount() int32 {
	return atomic.LoadInt32(&m.requestCount)
}

func (m *MockGraphServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)

	tag := r.URL.Query().Get("q")

	m.mu.RLock()
	status := m.errorCodes[tag]
	id, found := m.hashtags[tag]
	m.mu.RUnlock()

	if status != 0 {
		w.WriteHeader(status)
		fmt.Fprintf(w, `{"error": {"message": "simulated failure", "code": %d}}`, status)
		return
	}

	data := []map[string]string{}
	if found {
		data = append(data, map[string]string{"id": id})
	}
	json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
}

func (m *MockGraphServer) handleMedia(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&m.requestCount, 1)

	// Path shape: /v23.0/{hashtagID}/{edge}
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 || (parts[2] != "top_media" && parts[2] != "recent_media") {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error": {"message": "unknown path"}}`)
		return
	}

	m.mu.RLock()
	items := m.media[parts[1]]
	m.mu.RUnlock()

	limit := len(items)
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v < limit {
		limit = v
	}

	if items == nil {
		items = []map[string]interface{}{}
	}
	json.NewEncoder(w).Encode(map[string]interface{}{"data": items[:limit]})
}

// MockAirtableServer simulates the two Airtable tables the sync run touches,
// including filterByFormula matching, typecast writes and partial updates.
type MockAirtableServer struct {
	server *httptest.Server
	mu     sync.Mutex
	tables map[string][]*mockRecord
	seq    int
}

type mockRecord struct {
	ID     string                 `json:"id"`
	Fields map[string]interface{} `json:"fields"`
}

var (
	truthyFormula     = regexp.MustCompile(`^\{([^}]+)\}$`)
	equalsFormula     = regexp.MustCompile(`^\{([^}]+)\} = '(.*)'$`)
	equalsFoldFormula = regexp.MustCompile(`^LOWER\(\{([^}]+)\}\) = LOWER\('(.*)'\)$`)
)

// NewMockAirtableServer creates a mock Airtable API server
func NewMockAirtableServer() *MockAirtableServer {
	m := &MockAirtableServer{
		tables: make(map[string][]*mockRecord),
	}
	m.server = httptest.NewServer(http.HandlerFunc(m.handle))
	return m
}

// GetURL returns the mock server's base URL
func (m *MockAirtableServer) GetURL() string {
	return m.server.URL
}

// Close shuts down the mock server
func (m *MockAirtableServer) Close() {
	m.server.Close()
}

// Seed inserts a record directly into a table and returns its id
func (m *MockAirtableServer) Seed(table string, fields map[string]interface{}) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	id := fmt.Sprintf("rec%06d", m.seq)
	m.tables[table] = append(m.tables[table], &mockRecord{ID: id, Fields: fields})
	return id
}

// Records returns a snapshot of a table's records
func (m *MockAirtableServer) Records(table string) []mockRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]mockRecord, 0, len(m.tables[table]))
	for _, rec := range m.tables[table] {
		fields := make(map[string]interface{})
		for k, v := range rec.Fields {
			fields[k] = v
		}
		out = append(out, mockRecord{ID: rec.ID, Fields: fields})
	}
	return out
}

func (m *MockAirtableServer) handle(w http.ResponseWriter, r *http.Request) {
	// Path shape: /{baseID}/{table}
	parts := strings.SplitN(strings.Trim(r.URL.Path, "/"), "/", 2)
	if len(parts) != 2 {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error": {"type": "NOT_FOUND"}}`)
		return
	}
	table := parts[1]

	switch r.Method {
	case http.MethodGet:
		m.handleSelect(w, r, table)
	case http.MethodPost, http.MethodPatch:
		m.handleWrite(w, r, table)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (m *MockAirtableServer) handleSelect(w http.ResponseWriter, r *http.Request, table string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	query := r.URL.Query()
	formula := query.Get("filterByFormula")

	maxRecords := -1
	if v, err := strconv.Atoi(query.Get("maxRecords")); err == nil {
		maxRecords = v
	}

	var matched []*mockRecord
	for _, rec := range m.tables[table] {
		if formula != "" && !matchesFormula(formula, rec.Fields) {
			continue
		}
		matched = append(matched, rec)
		if maxRecords > 0 && len(matched) >= maxRecords {
			break
		}
	}

	records := make([]mockRecord, 0, len(matched))
	for _, rec := range matched {
		records = append(records, mockRecord{ID: rec.ID, Fields: project(rec.Fields, query["fields[]"])})
	}

	json.NewEncoder(w).Encode(map[string]interface{}{"records": records})
}

func (m *MockAirtableServer) handleWrite(w http.ResponseWriter, r *http.Request, table string) {
	var payload struct {
		Records []struct {
			ID     string                 `json:"id"`
			Fields map[string]interface{} `json:"fields"`
		} `json:"records"`
		Typecast bool `json:"typecast"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || len(payload.Records) == 0 {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{"error": {"type": "INVALID_REQUEST_BODY"}}`)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var written []mockRecord
	for _, entry := range payload.Records {
		if r.Method == http.MethodPost {
			m.seq++
			rec := &mockRecord{
				ID:     fmt.Sprintf("rec%06d", m.seq),
				Fields: entry.Fields,
			}
			m.tables[table] = append(m.tables[table], rec)
			written = append(written, *rec)
			continue
		}

		// PATCH merges the given fields, leaving the rest untouched
		rec := m.findLocked(table, entry.ID)
		if rec == nil {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error": {"type": "ROW_DOES_NOT_EXIST"}}`)
			return
		}
		for k, v := range entry.Fields {
			rec.Fields[k] = v
		}
		written = append(written, *rec)
	}

	json.NewEncoder(w).Encode(map[string]interface{}{"records": written})
}

func (m *MockAirtableServer) findLocked(table, id string) *mockRecord {
	for _, rec := range m.tables[table] {
		if rec.ID == id {
			return rec
		}
	}
	return nil
}

// matchesFormula evaluates the three formula shapes the sync tool generates
func matchesFormula(formula string, fields map[string]interface{}) bool {
	if m := equalsFoldFormula.FindStringSubmatch(formula); m != nil {
		value, _ := fields[m[1]].(string)
		return strings.EqualFold(value, unquoteFormulaValue(m[2]))
	}
	if m := equalsFormula.FindStringSubmatch(formula); m != nil {
		value, _ := fields[m[1]].(string)
		return value == unquoteFormulaValue(m[2])
	}
	if m := truthyFormula.FindStringSubmatch(formula); m != nil {
		value, _ := fields[m[1]].(bool)
		return value
	}
	return false
}

func unquoteFormulaValue(s string) string {
	return strings.ReplaceAll(s, `\'`, "'")
}

// project returns a copy of fields restricted to the requested names
func project(fields map[string]interface{}, names []string) map[string]interface{} {
	out := make(map[string]interface{})
	if len(names) == 0 {
		for k, v := range fields {
			out[k] = v
		}
		return out
	}
	for _, name := range names {
		if v, ok := fields[name]; ok {
			out[name] = v
		}
	}
	return out
}
