// Package netrictest provides an in-memory netric server for tests.
package netrictest

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/goccy/go-json"
	"github.com/spf13/cast"

	"github.com/netric/netric-sdk-go/internal/constants"
	"github.com/netric/netric-sdk-go/pkg/netric"
)

// Default credentials accepted by a new Server.
const (
	ApplicationID  = "test-app"
	ApplicationKey = "test-key"
)

// Server is a fake netric API. Entities live in memory, keyed by type and id.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	appID     string
	appKey    string
	tokens    map[string]bool
	entities  map[string][]*netric.Fields
	groupings map[string][]any
	nextID    int
	issued    int

	authCalls atomic.Int32
	calls     atomic.Int32
}

// NewServer starts a fake server accepting ApplicationID and ApplicationKey.
// Callers must Close it.
func NewServer() *Server {
	server := &Server{
		appID:     ApplicationID,
		appKey:    ApplicationKey,
		tokens:    make(map[string]bool),
		entities:  make(map[string][]*netric.Fields),
		groupings: make(map[string][]any),
	}

	mux := http.NewServeMux()
	mux.HandleFunc(constants.APIPathPrefix+"/authentication/authenticate", server.handleAuthenticate)
	mux.HandleFunc(constants.APIPathPrefix+"/entity/save", server.authenticated(server.handleSave))
	mux.HandleFunc(constants.APIPathPrefix+"/entity/get", server.authenticated(server.handleGet))
	mux.HandleFunc(constants.APIPathPrefix+"/entity/remove", server.authenticated(server.handleRemove))
	mux.HandleFunc(constants.APIPathPrefix+"/entity/get-groupings", server.authenticated(server.handleGroupings))
	mux.HandleFunc(constants.APIPathPrefix+"/entity-query/execute", server.authenticated(server.handleQuery))

	server.Server = httptest.NewServer(mux)

	return server
}

// AuthCalls returns how many authentication requests were received.
func (s *Server) AuthCalls() int {
	return int(s.authCalls.Load())
}

// Calls returns how many authenticated API requests were received.
func (s *Server) Calls() int {
	return int(s.calls.Load())
}

// RevokeTokens invalidates every issued session token.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens = make(map[string]bool)
}

// Seed stores raw entity fields as-is, bypassing save. The fields must carry
// obj_type and id.
func (s *Server) Seed(fields map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := netric.NewValue(fields).Object()
	objType := cast.ToString(fields[constants.FieldObjType])
	s.entities[objType] = append(s.entities[objType], stored)
}

// SetGroupings installs the wire grouping tree returned for a field.
func (s *Server) SetGroupings(objType, fieldName string, groups []any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.groupings[objType+"."+fieldName] = groups
}

// Count returns how many entities of objType are stored.
func (s *Server) Count(objType string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entities[objType])
}

func (s *Server) handleAuthenticate(writer http.ResponseWriter, request *http.Request) {
	s.authCalls.Add(1)

	query := request.URL.Query()
	if query.Get(constants.AuthParamUsername) != s.appID || query.Get(constants.AuthParamPassword) != s.appKey {
		writeJSON(writer, map[string]any{
			constants.AuthFieldResult: "FAIL",
			constants.AuthFieldReason: "Invalid application id or key",
		})

		return
	}

	s.mu.Lock()
	s.issued++
	token := "session-" + strconv.Itoa(s.issued)
	s.tokens[token] = true
	s.mu.Unlock()

	writeJSON(writer, map[string]any{
		constants.AuthFieldResult: constants.AuthResultSuccess,
		constants.AuthFieldToken:  token,
	})
}

func (s *Server) authenticated(next func(http.ResponseWriter, *http.Request, *netric.Fields)) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		s.calls.Add(1)

		s.mu.Lock()
		valid := s.tokens[request.Header.Get(constants.AuthenticationHeader)]
		s.mu.Unlock()

		if !valid {
			writer.WriteHeader(http.StatusUnauthorized)
			writeJSON(writer, map[string]any{constants.FieldError: "Session expired"})

			return
		}

		params, err := readParams(request)
		if err != nil {
			writer.WriteHeader(http.StatusBadRequest)
			writeJSON(writer, map[string]any{constants.FieldError: err.Error()})

			return
		}

		next(writer, request, params)
	}
}

// readParams merges GET query parameters and a POST JSON body into one field
// set. Parameters named "key[]" collect into a list under "key".
func readParams(request *http.Request) (*netric.Fields, error) {
	params := netric.NewFields()

	for key, values := range request.URL.Query() {
		if name, ok := strings.CutSuffix(key, "[]"); ok {
			list := make([]any, 0, len(values))
			for _, value := range values {
				list = append(list, value)
			}

			params.Set(name, list)

			continue
		}

		params.Set(key, values[0])
	}

	if request.Method != http.MethodPost {
		return params, nil
	}

	body, err := io.ReadAll(request.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	if len(body) == 0 {
		return params, nil
	}

	var decoded netric.Fields
	if err := decoded.UnmarshalJSON(body); err != nil {
		return nil, fmt.Errorf("parsing body: %w", err)
	}

	decoded.Range(func(name string, value any) bool {
		params.Set(name, value)

		return true
	})

	return params, nil
}

func (s *Server) handleSave(writer http.ResponseWriter, _ *http.Request, params *netric.Fields) {
	objType := stringParam(params, constants.FieldObjType)
	if objType == "" {
		writeJSON(writer, map[string]any{constants.FieldError: "obj_type is a required param"})

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := stringParam(params, constants.FieldID)
	if id == "" {
		s.nextID++
		id = strconv.Itoa(s.nextID)
		params.Set(constants.FieldID, id)
		params.Set("revision", 1)
		s.entities[objType] = append(s.entities[objType], params)

		writeJSON(writer, params)

		return
	}

	stored := s.find(objType, id)
	if stored == nil {
		writeJSON(writer, map[string]any{constants.FieldError: "entity " + id + " not found"})

		return
	}

	params.Range(func(name string, value any) bool {
		stored.Set(name, value)

		return true
	})
	stored.Set("revision", cast.ToInt(fieldValue(stored, "revision"))+1)

	writeJSON(writer, stored)
}

func (s *Server) handleGet(writer http.ResponseWriter, _ *http.Request, params *netric.Fields) {
	objType := stringParam(params, constants.FieldObjType)
	if objType == "" {
		writeJSON(writer, map[string]any{constants.FieldError: "obj_type is a required param"})

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var found *netric.Fields

	if uname := stringParam(params, constants.FieldUniqueName); uname != "" {
		conditions := netric.NewValue(fieldValue(params, constants.FieldUniqueNameConds)).List()
		for _, stored := range s.entities[objType] {
			if stringParam(stored, constants.FieldUniqueName) == uname && matches(stored, conditions) {
				found = stored

				break
			}
		}
	} else {
		found = s.find(objType, stringParam(params, constants.FieldID))
	}

	if found == nil {
		writeJSON(writer, map[string]any{})

		return
	}

	writeJSON(writer, found)
}

func (s *Server) handleRemove(writer http.ResponseWriter, _ *http.Request, params *netric.Fields) {
	objType := stringParam(params, constants.FieldObjType)

	ids := netric.NewValue(fieldValue(params, constants.FieldIDs)).List()
	if ids == nil {
		ids = []netric.Value{netric.NewValue(fieldValue(params, constants.FieldIDs))}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := []any{}

	for _, id := range ids {
		stored := s.entities[objType]

		index := slices.IndexFunc(stored, func(fields *netric.Fields) bool {
			return stringParam(fields, constants.FieldID) == id.String()
		})
		if index < 0 {
			continue
		}

		s.entities[objType] = slices.Delete(stored, index, index+1)
		removed = append(removed, id.String())
	}

	writeJSON(writer, removed)
}

func (s *Server) handleGroupings(writer http.ResponseWriter, _ *http.Request, params *netric.Fields) {
	key := stringParam(params, constants.FieldObjType) + "." + stringParam(params, constants.FieldFieldName)

	s.mu.Lock()
	groups, ok := s.groupings[key]
	s.mu.Unlock()

	if !ok {
		groups = []any{}
	}

	writeJSON(writer, map[string]any{constants.FieldGroups: groups})
}

func (s *Server) handleQuery(writer http.ResponseWriter, _ *http.Request, params *netric.Fields) {
	objType := stringParam(params, constants.FieldObjType)
	offset := cast.ToInt(fieldValue(params, constants.FieldOffset))

	limit := cast.ToInt(fieldValue(params, constants.FieldLimit))
	if limit <= 0 {
		limit = netric.DefaultLimit
	}

	conditions := netric.NewValue(fieldValue(params, constants.FieldConditions)).List()

	s.mu.Lock()

	matched := make([]*netric.Fields, 0, len(s.entities[objType]))
	for _, stored := range s.entities[objType] {
		if matches(stored, conditions) {
			matched = append(matched, stored.Clone())
		}
	}

	s.mu.Unlock()

	sortEntities(matched, netric.NewValue(fieldValue(params, constants.FieldOrderBy)).List())

	page := []*netric.Fields{}
	if offset < len(matched) {
		page = matched[offset:min(offset+limit, len(matched))]
	}

	result := netric.NewFields()
	result.Set(constants.FieldTotalNum, len(matched))
	result.Set(constants.FieldOffset, offset)
	result.Set(constants.FieldLimit, limit)
	result.Set(constants.FieldNum, len(page))
	result.Set(constants.FieldEntities, page)

	writeJSON(writer, result)
}

func (s *Server) find(objType, id string) *netric.Fields {
	for _, stored := range s.entities[objType] {
		if stringParam(stored, constants.FieldID) == id {
			return stored
		}
	}

	return nil
}

// matches evaluates wire conditions left to right, combining each with the
// result so far by its blogic.
func matches(fields *netric.Fields, conditions []netric.Value) bool {
	result := true

	for index, raw := range conditions {
		condition := raw.Object()
		if condition == nil {
			continue
		}

		field := stringParam(condition, "field_name")
		hit := compare(fieldValue(fields, field), stringParam(condition, "operator"), fieldValue(condition, "value"))

		switch {
		case index == 0:
			result = hit
		case stringParam(condition, "blogic") == netric.BLogicOr:
			result = result || hit
		default:
			result = result && hit
		}
	}

	return result
}

func compare(actual any, operator string, expected any) bool {
	left := cast.ToString(actual)
	right := cast.ToString(expected)

	switch operator {
	case netric.OperatorEquals:
		return left == right
	case netric.OperatorNotEquals:
		return left != right
	case netric.OperatorContains:
		return strings.Contains(strings.ToLower(left), strings.ToLower(right))
	case netric.OperatorBeginsWith:
		return strings.HasPrefix(strings.ToLower(left), strings.ToLower(right))
	}

	leftNum, leftErr := cast.ToFloat64E(actual)
	rightNum, rightErr := cast.ToFloat64E(expected)

	if leftErr != nil || rightErr != nil {
		return false
	}

	switch operator {
	case netric.OperatorGreaterThan:
		return leftNum > rightNum
	case netric.OperatorLessThan:
		return leftNum < rightNum
	case netric.OperatorGreaterOrEqualTo:
		return leftNum >= rightNum
	case netric.OperatorLessOrEqualTo:
		return leftNum <= rightNum
	default:
		return false
	}
}

func sortEntities(entities []*netric.Fields, orderBy []netric.Value) {
	if len(orderBy) == 0 {
		return
	}

	slices.SortStableFunc(entities, func(a, b *netric.Fields) int {
		for _, raw := range orderBy {
			sort := raw.Object()
			if sort == nil {
				continue
			}

			field := stringParam(sort, "field_name")

			order := strings.Compare(stringParam(a, field), stringParam(b, field))
			if aNum, err := cast.ToFloat64E(fieldValue(a, field)); err == nil {
				if bNum, err := cast.ToFloat64E(fieldValue(b, field)); err == nil {
					order = compareFloat(aNum, bNum)
				}
			}

			if stringParam(sort, "direction") == netric.SortDesc {
				order = -order
			}

			if order != 0 {
				return order
			}
		}

		return 0
	})
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func fieldValue(fields *netric.Fields, name string) any {
	value, _ := fields.Get(name)

	return value
}

func stringParam(fields *netric.Fields, name string) string {
	return netric.NewValue(fieldValue(fields, name)).String()
}

func writeJSON(writer http.ResponseWriter, payload any) {
	writer.Header().Set("Content-Type", "application/json")

	body, err := json.Marshal(payload)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)

		return
	}

	_, _ = writer.Write(body)
}
