package apitest

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	collProjects  = "projects"
	collInstances = "instances"
	collVaults    = "vaults"
	collDatabases = "databases"
	collAgents    = "agents"
	collDocuments = "legal_documents"
	collModels    = "llm_models"
)

func secretsColl(vaultID string) string { return "vaults/" + vaultID + "/secrets" }
func branchesColl(dbID string) string   { return "databases/" + dbID + "/branches" }
func runsColl(agentID string) string    { return "agents/" + agentID + "/runs" }

func (s *Server) setupRoutes(r *gin.RouterGroup) {
	// Projects
	r.POST("/projects", s.handleCreate(collProjects, "prj", "name"))
	r.GET("/projects", s.handleList(collProjects))
	r.GET("/projects/:id", s.handleGet(collProjects, "project"))
	r.PATCH("/projects/:id", s.handlePatch(collProjects, "project"))
	r.DELETE("/projects/:id", s.handleDelete(collProjects, "project"))

	// Instances
	r.POST("/instances", s.handleCreateInstance)
	r.GET("/instances", s.handleList(collInstances, "project_id", "status"))
	r.GET("/instances/:id", s.handleGet(collInstances, "instance"))
	r.POST("/instances/:id/start", s.handleInstanceTransition("running"))
	r.POST("/instances/:id/stop", s.handleInstanceTransition("stopped"))
	r.DELETE("/instances/:id", s.handleDelete(collInstances, "instance"))

	// Vaults
	r.POST("/vaults", s.handleCreateVault)
	r.GET("/vaults", s.handleList(collVaults, "project_id"))
	r.GET("/vaults/:id", s.handleGet(collVaults, "vault"))
	r.PUT("/vaults/:id/secrets/:key", s.handlePutSecret)
	r.GET("/vaults/:id/secrets/:key", s.handleGetSecret)
	r.DELETE("/vaults/:id/secrets/:key", s.handleDeleteSecret)

	// Databases
	r.GET("/databases", s.handleList(collDatabases, "project_id", "engine"))
	r.GET("/databases/:id", s.handleGet(collDatabases, "database"))
	r.POST("/databases/:id/branches", s.handleCreateBranch)
	r.GET("/databases/:id/branches", s.handleListBranches)
	r.POST("/databases/:id/branches/:branch/reset", s.handleResetBranch)
	r.DELETE("/databases/:id/branches/:branch", s.handleDeleteBranch)

	// Agents
	r.POST("/agents", s.handleCreate(collAgents, "agt", "project_id", "name", "model"))
	r.GET("/agents", s.handleList(collAgents, "project_id"))
	r.GET("/agents/:id", s.handleGet(collAgents, "agent"))
	r.POST("/agents/:id/runs", s.handleRunAgent)
	r.GET("/agents/:id/runs/:run", s.handleGetRun)

	// Legal search
	r.POST("/legal/search", s.handleLegalSearch)
	r.GET("/legal/documents/:id", s.handleGetDocument)

	// OpenAI-compatible inference
	r.POST("/llm/v1/chat/completions", s.handleChatCompletion)
	r.GET("/llm/v1/models", s.handleListModels)
}

// =============================================================================
// Generic handlers
// =============================================================================

// readObject reads the request body as a JSON object and checks that every
// required member is present and not null. It writes the error response
// itself and reports whether the handler should continue.
func readObject(c *gin.Context, required ...string) ([]byte, bool) {
	body, err := c.GetRawData()
	if err != nil {
		respondBadRequest(c, "failed to read request body")
		return nil, false
	}
	if len(body) == 0 {
		body = []byte("{}")
	}
	if !isObject(body) {
		respondBadRequest(c, "request body must be a JSON object")
		return nil, false
	}

	var details []ErrorDetail
	for _, field := range required {
		v := gjson.GetBytes(body, escapeKey(field))
		if !v.Exists() || v.Type == gjson.Null {
			details = append(details, ErrorDetail{Field: field, Message: field + " is required", Code: "required"})
		}
	}
	if len(details) > 0 {
		respondValidationError(c, "request body is invalid", details)
		return nil, false
	}
	return body, true
}

func listQuery(c *gin.Context, filters ...string) (ListQuery, bool) {
	q := ListQuery{Cursor: c.Query("cursor")}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 100 {
			respondValidationError(c, "invalid query", []ErrorDetail{{
				Field:   "limit",
				Message: "limit must be between 1 and 100",
				Code:    "out_of_range",
			}})
			return q, false
		}
		q.Limit = limit
	}

	want := map[string]string{}
	for _, f := range filters {
		if v := c.Query(f); v != "" {
			want[f] = v
		}
	}
	if len(want) > 0 {
		q.Match = func(doc gjson.Result) bool {
			for k, v := range want {
				if doc.Get(escapeKey(k)).String() != v {
					return false
				}
			}
			return true
		}
	}
	return q, true
}

func (s *Server) handleCreate(coll, prefix string, required ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, ok := readObject(c, required...)
		if !ok {
			return
		}
		doc, err := s.store.Insert(coll, prefix, body)
		if err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		respondRaw(c, http.StatusCreated, doc)
	}
}

func (s *Server) handleList(coll string, filters ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, ok := listQuery(c, filters...)
		if !ok {
			return
		}
		s.respondList(c, coll, q)
	}
}

func (s *Server) respondList(c *gin.Context, coll string, q ListQuery) {
	docs, next, err := s.store.List(coll, q)
	if err != nil {
		respondValidationError(c, "invalid query", []ErrorDetail{{
			Field:   "cursor",
			Message: "cursor does not name an item of this list",
			Code:    "invalid",
		}})
		return
	}
	respondPage(c, docs, next)
}

func (s *Server) handleGet(coll, kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, ok := s.store.Get(coll, c.Param("id"))
		if !ok {
			respondNotFound(c, kind+" not found")
			return
		}
		respondRaw(c, http.StatusOK, doc)
	}
}

func (s *Server) handlePatch(coll, kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, ok := readObject(c)
		if !ok {
			return
		}
		doc, found, err := s.store.Patch(coll, c.Param("id"), body)
		switch {
		case !found:
			respondNotFound(c, kind+" not found")
		case err != nil:
			respondBadRequest(c, err.Error())
		default:
			respondRaw(c, http.StatusOK, doc)
		}
	}
}

func (s *Server) handleDelete(coll, kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.store.Delete(coll, c.Param("id")) {
			respondNotFound(c, kind+" not found")
			return
		}
		respondNoContent(c)
	}
}

// requireProject checks the project_id member of body refers to a project.
func (s *Server) requireProject(c *gin.Context, body []byte) bool {
	id := gjson.GetBytes(body, "project_id").String()
	if _, ok := s.store.Get(collProjects, id); !ok {
		respondNotFound(c, fmt.Sprintf("project %s not found", id))
		return false
	}
	return true
}

// =============================================================================
// Instances
// =============================================================================

func (s *Server) handleCreateInstance(c *gin.Context) {
	body, ok := readObject(c, "project_id", "name", "machine_type")
	if !ok || !s.requireProject(c, body) {
		return
	}
	body, _ = sjson.SetBytes(body, "status", "pending")
	body, _ = sjson.SetRawBytes(body, "ip_address", []byte("null"))
	if !gjson.GetBytes(body, "region").Exists() {
		body, _ = sjson.SetBytes(body, "region", "us-east-1")
	}
	doc, err := s.store.Insert(collInstances, "ins", body)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	respondRaw(c, http.StatusCreated, doc)
}

func (s *Server) handleInstanceTransition(to string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		doc, ok := s.store.Get(collInstances, id)
		if !ok {
			respondNotFound(c, "instance not found")
			return
		}
		if gjson.GetBytes(doc, "status").String() == "terminated" {
			respondConflict(c, "instance is terminated")
			return
		}

		patch := []byte(`{"ip_address":null}`)
		patch, _ = sjson.SetBytes(patch, "status", to)
		if to == "running" {
			patch, _ = sjson.SetBytes(patch, "ip_address", "10.0.0."+strconv.Itoa(len(id)%250+2))
		}
		doc, _, err := s.store.Patch(collInstances, id, patch)
		if err != nil {
			respondBadRequest(c, err.Error())
			return
		}
		respondRaw(c, http.StatusOK, doc)
	}
}

// =============================================================================
// Vaults
// =============================================================================

func (s *Server) handleCreateVault(c *gin.Context) {
	body, ok := readObject(c, "project_id", "name")
	if !ok || !s.requireProject(c, body) {
		return
	}
	body, _ = sjson.SetBytes(body, "secret_count", 0)
	doc, err := s.store.Insert(collVaults, "vlt", body)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	respondRaw(c, http.StatusCreated, doc)
}

func (s *Server) handlePutSecret(c *gin.Context) {
	vaultID, key := c.Param("id"), c.Param("key")
	if _, ok := s.store.Get(collVaults, vaultID); !ok {
		respondNotFound(c, "vault not found")
		return
	}
	body, ok := readObject(c, "value")
	if !ok {
		return
	}
	if gjson.GetBytes(body, "value").Type != gjson.String {
		respondValidationError(c, "request body is invalid", []ErrorDetail{{
			Field: "value", Message: "value must be a string", Code: "type",
		}})
		return
	}

	coll := secretsColl(vaultID)
	version := int64(1)
	prev, exists := s.store.Get(coll, key)
	if exists {
		version = gjson.GetBytes(prev, "version").Int() + 1
	}

	doc := body
	doc, _ = sjson.SetBytes(doc, "key", key)
	doc, _ = sjson.SetBytes(doc, "vault_id", vaultID)
	doc, _ = sjson.SetBytes(doc, "version", version)
	doc, _ = sjson.SetBytes(doc, "updated_at", s.store.now().UTC().Format(time.RFC3339))
	s.store.Put(coll, key, doc)

	if !exists {
		s.bumpSecretCount(vaultID, 1)
	}

	// Writes never echo the secret.
	out, _ := sjson.DeleteBytes(doc, "value")
	respondRaw(c, http.StatusOK, out)
}

func (s *Server) handleGetSecret(c *gin.Context) {
	doc, ok := s.store.Get(secretsColl(c.Param("id")), c.Param("key"))
	if !ok {
		respondNotFound(c, "secret not found")
		return
	}
	respondRaw(c, http.StatusOK, doc)
}

func (s *Server) handleDeleteSecret(c *gin.Context) {
	vaultID := c.Param("id")
	if !s.store.Delete(secretsColl(vaultID), c.Param("key")) {
		respondNotFound(c, "secret not found")
		return
	}
	s.bumpSecretCount(vaultID, -1)
	respondNoContent(c)
}

func (s *Server) bumpSecretCount(vaultID string, delta int64) {
	vault, ok := s.store.Get(collVaults, vaultID)
	if !ok {
		return
	}
	patch, _ := sjson.SetBytes([]byte("{}"), "secret_count", gjson.GetBytes(vault, "secret_count").Int()+delta)
	_, _, _ = s.store.Patch(collVaults, vaultID, patch)
}

// =============================================================================
// Database branches
// =============================================================================

func (s *Server) handleCreateBranch(c *gin.Context) {
	dbID := c.Param("id")
	database, ok := s.store.Get(collDatabases, dbID)
	if !ok {
		respondNotFound(c, "database not found")
		return
	}
	body, ok := readObject(c, "name")
	if !ok {
		return
	}

	coll := branchesColl(dbID)
	name := gjson.GetBytes(body, "name").String()
	dup, _, _ := s.store.List(coll, ListQuery{Limit: 1, Match: func(doc gjson.Result) bool {
		return doc.Get("name").String() == name
	}})
	if len(dup) > 0 {
		respondConflict(c, fmt.Sprintf("branch %q already exists", name))
		return
	}

	parent := gjson.GetBytes(body, "parent_branch_id").String()
	if parent == "" {
		parent = gjson.GetBytes(database, "default_branch_id").String()
	}
	if _, ok := s.store.Get(coll, parent); !ok {
		respondNotFound(c, "parent branch not found")
		return
	}

	body, _ = sjson.SetBytes(body, "database_id", dbID)
	body, _ = sjson.SetBytes(body, "parent_branch_id", parent)
	body, _ = sjson.SetBytes(body, "status", "ready")
	body, _ = sjson.SetBytes(body, "connection_uri", connectionURI(database, name))
	doc, err := s.store.Insert(coll, "br", body)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	respondRaw(c, http.StatusCreated, doc)
}

func (s *Server) handleListBranches(c *gin.Context) {
	dbID := c.Param("id")
	if _, ok := s.store.Get(collDatabases, dbID); !ok {
		respondNotFound(c, "database not found")
		return
	}
	q, ok := listQuery(c)
	if !ok {
		return
	}
	s.respondList(c, branchesColl(dbID), q)
}

// branch loads the branch named by the route and rejects the default branch,
// which can be neither reset nor deleted.
func (s *Server) branch(c *gin.Context) (string, bool) {
	coll := branchesColl(c.Param("id"))
	doc, ok := s.store.Get(coll, c.Param("branch"))
	if !ok {
		respondNotFound(c, "branch not found")
		return "", false
	}
	if gjson.GetBytes(doc, "parent_branch_id").Type == gjson.Null {
		respondConflict(c, "the default branch cannot be modified")
		return "", false
	}
	return coll, true
}

func (s *Server) handleResetBranch(c *gin.Context) {
	coll, ok := s.branch(c)
	if !ok {
		return
	}
	patch, _ := sjson.SetBytes([]byte(`{"status":"ready"}`), "reset_at", s.store.now().UTC().Format(time.RFC3339))
	doc, _, err := s.store.Patch(coll, c.Param("branch"), patch)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	respondRaw(c, http.StatusOK, doc)
}

func (s *Server) handleDeleteBranch(c *gin.Context) {
	coll, ok := s.branch(c)
	if !ok {
		return
	}
	s.store.Delete(coll, c.Param("branch"))
	respondNoContent(c)
}

func connectionURI(database []byte, branch string) string {
	engine := gjson.GetBytes(database, "engine").String()
	name := gjson.GetBytes(database, "name").String()
	return fmt.Sprintf("%s://%s.%s.db.platform.local/%s", engine, branch, name, name)
}

// =============================================================================
// Agents
// =============================================================================

// handleRunAgent completes runs synchronously: the output echoes the input
// and variables.
func (s *Server) handleRunAgent(c *gin.Context) {
	agentID := c.Param("id")
	if _, ok := s.store.Get(collAgents, agentID); !ok {
		respondNotFound(c, "agent not found")
		return
	}
	body, ok := readObject(c, "input")
	if !ok {
		return
	}

	input := gjson.GetBytes(body, "input").String()
	output := []byte("{}")
	output, _ = sjson.SetBytes(output, "text", "echo: "+input)
	if vars := gjson.GetBytes(body, "variables"); vars.Exists() {
		output, _ = sjson.SetRawBytes(output, "variables", []byte(vars.Raw))
	}

	run := []byte("{}")
	run, _ = sjson.SetBytes(run, "agent_id", agentID)
	run, _ = sjson.SetBytes(run, "status", "succeeded")
	run, _ = sjson.SetBytes(run, "input", input)
	run, _ = sjson.SetRawBytes(run, "output", output)
	run, _ = sjson.SetRawBytes(run, "error", []byte("null"))
	run, _ = sjson.SetBytes(run, "completed_at", s.store.now().UTC().Format(time.RFC3339))
	doc, err := s.store.Insert(runsColl(agentID), "run", run)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	respondRaw(c, http.StatusCreated, doc)
}

func (s *Server) handleGetRun(c *gin.Context) {
	doc, ok := s.store.Get(runsColl(c.Param("id")), c.Param("run"))
	if !ok {
		respondNotFound(c, "run not found")
		return
	}
	respondRaw(c, http.StatusOK, doc)
}
