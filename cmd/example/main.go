package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	cms "github.com/brightlane/school-cms"
	"github.com/brightlane/school-cms/internal/blocks"
	"github.com/brightlane/school-cms/internal/domain"
	"github.com/brightlane/school-cms/internal/identity"
	"github.com/brightlane/school-cms/internal/pages"
	"github.com/brightlane/school-cms/internal/users"
)

func main() {
	ctx := context.Background()

	db, err := cms.OpenSQLite("file::memory:?cache=shared")
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := cms.RunMigrations(ctx, db); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	directory := users.NewBunDirectory(db)
	principalID := identity.UserUUID("principal")
	teacherID := identity.UserUUID("teacher")
	seed := []*users.User{
		{ID: principalID, Username: "principal", FullName: "School Principal", Role: domain.RoleAdmin, IsActive: true},
		{ID: teacherID, Username: "teacher", FullName: "Homeroom Teacher", Role: domain.RoleEditor, IsActive: true},
	}
	for _, account := range seed {
		if _, err := directory.Create(ctx, account); err != nil {
			log.Fatalf("seed user %s: %v", account.Username, err)
		}
	}

	cfg := cms.DefaultConfig()
	cfg.DB = db
	cfg.Logging = cms.LoggingConfig{
		Provider: cms.LoggingProviderGoLogger,
		Level:    "info",
		Format:   "console",
	}

	module, err := cms.New(cfg, cms.WithUserDirectory(directory))
	if err != nil {
		log.Fatalf("initialise cms: %v", err)
	}

	// Affordance checks drive which controls a host UI shows per account.
	for _, account := range seed {
		role, err := module.ActorRole(ctx, account.ID)
		if err != nil {
			log.Fatalf("resolve role for %s: %v", account.Username, err)
		}
		canDelete, err := module.CanDelete(ctx, account.ID)
		if err != nil {
			log.Fatalf("delete affordance for %s: %v", account.Username, err)
		}
		fmt.Printf("%s signs in as %s (may delete pages: %t)\n", account.Username, role, canDelete)
	}

	// A teacher drafts the landing page through an editing session.
	session := module.EditSession(teacherID, nil)
	session.SetTitle("Welcome to Brightlane Elementary")
	session.SetSlug("welcome")
	if _, err := session.AddBlock(blocks.TypeHero); err != nil {
		log.Fatalf("add hero: %v", err)
	}
	body, err := session.AddBlock(blocks.TypeRichText)
	if err != nil {
		log.Fatalf("add richtext: %v", err)
	}
	if err := session.UpdateBlock(body.ID, map[string]any{
		"content": "<p>Enrollment for the fall term is now open.</p>",
	}); err != nil {
		log.Fatalf("update richtext: %v", err)
	}
	draft, err := session.Save(ctx, "")
	if err != nil {
		log.Fatalf("save draft: %v", err)
	}
	fmt.Printf("drafted %q (v%d, %s)\n", draft.Title, draft.Version, draft.Status)

	// The principal publishes it through the command surface.
	if err := module.PublishHandler().Execute(ctx, cms.PublishPageCommand{
		PageID:     draft.ID,
		ActorID:    principalID,
		ChangeNote: "Approved for the new term",
	}); err != nil {
		log.Fatalf("publish: %v", err)
	}

	published, err := module.Pages().FindBySlugPublic(ctx, "welcome")
	if err != nil {
		log.Fatalf("public lookup: %v", err)
	}
	fmt.Printf("published %q at %s\n", published.Slug, published.PublishedAt.Format(time.RFC3339))

	doc := module.Renderer().RenderPage(published)
	rendered, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Fatalf("marshal rendered page: %v", err)
	}
	fmt.Printf("rendered document:\n%s\n", rendered)

	// Newsletter pages arrive as markdown documents.
	newsletter := "---\ntitle: September Newsletter\nslug: newsletter-september\nmenuGroup: news\n---\n# September\n\nWelcome back, families!\n"
	mdDoc, err := cms.BuildMarkdownDocument("content/newsletter-september.md", []byte(newsletter), time.Now())
	if err != nil {
		log.Fatalf("parse newsletter: %v", err)
	}
	result, err := module.Importer().ImportDocument(ctx, mdDoc, cms.ImportOptions{AuthorID: principalID})
	if err != nil {
		log.Fatalf("import newsletter: %v", err)
	}
	fmt.Printf("imported %d page(s) from markdown\n", len(result.CreatedIDs))

	list, err := module.Pages().List(ctx, pages.ListPagesRequest{})
	if err != nil {
		log.Fatalf("list pages: %v", err)
	}
	fmt.Printf("site now has %d page(s):\n", list.Total)
	for _, page := range list.Items {
		fmt.Printf("  - %s (%s, v%d)\n", page.Slug, page.Status, page.Version)
	}
}
