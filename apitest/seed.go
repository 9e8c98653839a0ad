package apitest

import (
	"time"

	"github.com/tidwall/sjson"
)

// Demo fixtures loaded by New.
const (
	DemoProjectID  = "prj_demo"
	DemoDatabaseID = "db_demo"
	DemoBranchID   = "br_main"
	DemoModel      = "platform-chat-small"
)

var seedDocuments = []struct {
	id, title, jurisdiction, citation, body string
}{
	{
		id:           "doc_gdpr_art17",
		title:        "Right to erasure",
		jurisdiction: "EU",
		citation:     "GDPR Art. 17",
		body:         "The data subject shall have the right to obtain from the controller the erasure of personal data concerning him or her without undue delay.",
	},
	{
		id:           "doc_ccpa_1798_105",
		title:        "Consumer right to delete personal information",
		jurisdiction: "US-CA",
		citation:     "Cal. Civ. Code 1798.105",
		body:         "A consumer shall have the right to request that a business delete any personal information about the consumer which the business has collected.",
	},
	{
		id:           "doc_ucc_2_207",
		title:        "Additional terms in acceptance or confirmation",
		jurisdiction: "US",
		citation:     "",
		body:         "A definite and seasonable expression of acceptance operates as an acceptance even though it states terms additional to or different from those offered.",
	},
}

var seedModels = []struct {
	id, owner string
	window    int
}{
	{id: DemoModel, owner: "platform", window: 8192},
	{id: "platform-chat-large", owner: "platform", window: 131072},
}

func (s *Server) seed() {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339)

	project := []byte("{}")
	project, _ = sjson.SetBytes(project, "id", DemoProjectID)
	project, _ = sjson.SetBytes(project, "name", "Demo")
	project, _ = sjson.SetRawBytes(project, "description", []byte("null"))
	project, _ = sjson.SetBytes(project, "created_at", created)
	s.store.Put(collProjects, DemoProjectID, project)

	database := []byte("{}")
	database, _ = sjson.SetBytes(database, "id", DemoDatabaseID)
	database, _ = sjson.SetBytes(database, "project_id", DemoProjectID)
	database, _ = sjson.SetBytes(database, "name", "demo")
	database, _ = sjson.SetBytes(database, "engine", "postgres")
	database, _ = sjson.SetBytes(database, "default_branch_id", DemoBranchID)
	database, _ = sjson.SetBytes(database, "created_at", created)
	s.store.Put(collDatabases, DemoDatabaseID, database)

	branch := []byte("{}")
	branch, _ = sjson.SetBytes(branch, "id", DemoBranchID)
	branch, _ = sjson.SetBytes(branch, "database_id", DemoDatabaseID)
	branch, _ = sjson.SetBytes(branch, "name", "main")
	branch, _ = sjson.SetRawBytes(branch, "parent_branch_id", []byte("null"))
	branch, _ = sjson.SetBytes(branch, "status", "ready")
	branch, _ = sjson.SetBytes(branch, "connection_uri", "postgres://main.demo.db.platform.local/demo")
	branch, _ = sjson.SetBytes(branch, "created_at", created)
	s.store.Put(branchesColl(DemoDatabaseID), DemoBranchID, branch)

	for _, d := range seedDocuments {
		doc := []byte("{}")
		doc, _ = sjson.SetBytes(doc, "id", d.id)
		doc, _ = sjson.SetBytes(doc, "title", d.title)
		doc, _ = sjson.SetBytes(doc, "jurisdiction", d.jurisdiction)
		if d.citation != "" {
			doc, _ = sjson.SetBytes(doc, "citation", d.citation)
		} else {
			doc, _ = sjson.SetRawBytes(doc, "citation", []byte("null"))
		}
		doc, _ = sjson.SetBytes(doc, "body", d.body)
		s.store.Put(collDocuments, d.id, doc)
	}

	for _, m := range seedModels {
		doc := []byte("{}")
		doc, _ = sjson.SetBytes(doc, "id", m.id)
		doc, _ = sjson.SetBytes(doc, "object", "model")
		doc, _ = sjson.SetBytes(doc, "owned_by", m.owner)
		doc, _ = sjson.SetBytes(doc, "created", 1704067200)
		doc, _ = sjson.SetBytes(doc, "context_window", m.window)
		s.store.Put(collModels, m.id, doc)
	}
}
