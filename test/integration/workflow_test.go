package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/rgrenier/folio/pkg/api"
)

// TestPagePublishingWorkflow walks the full lifecycle: sign in, create a
// draft page, publish it through a manager, read it anonymously, and
// tear it down.
func TestPagePublishingWorkflow(t *testing.T) {
	// Sign in as the admin to obtain a fresh token over the wire.
	resp := request(t, http.MethodPost, "/sign-in", "",
		map[string]string{"email": adminEmail, "password": adminPassword})
	wantStatus(t, resp, http.StatusOK)

	var adminToken string
	result(t, resp, &adminToken)
	if adminToken == "" {
		t.Fatal("sign-in returned empty token")
	}

	// Create a draft page with the freshly issued token.
	resp = request(t, http.MethodPost, "/pages", adminToken, map[string]string{
		"title":   "Release notes",
		"content": "## What changed",
		"url":     "/release-notes",
	})
	wantStatus(t, resp, http.StatusOK)

	var page api.Page
	result(t, resp, &page)
	if page.Status != api.PageStatusDraft {
		t.Errorf("new page status = %q, want draft", page.Status)
	}
	if page.CreatorID != testEnv.AdminID {
		t.Errorf("creatorId = %d, want %d", page.CreatorID, testEnv.AdminID)
	}

	pagePath := fmt.Sprintf("/pages/%d", page.ID)

	// The draft is invisible to anonymous readers.
	resp = request(t, http.MethodGet, pagePath, "", nil)
	wantStatus(t, resp, http.StatusMethodNotAllowed)

	// An editor may read the draft but not publish it.
	resp = request(t, http.MethodGet, pagePath, testEnv.EditorToken, nil)
	wantStatus(t, resp, http.StatusOK)

	resp = request(t, http.MethodPatch, pagePath, testEnv.EditorToken,
		map[string]string{"status": "published"})
	wantStatus(t, resp, http.StatusMethodNotAllowed)

	// A manager publishes it and lands in the edit trail.
	resp = request(t, http.MethodPatch, pagePath, testEnv.ManagerToken,
		map[string]string{"status": "published"})
	wantStatus(t, resp, http.StatusOK)

	result(t, resp, &page)
	if page.Status != api.PageStatusPublished {
		t.Errorf("status after publish = %q, want published", page.Status)
	}
	if page.ModifiedBy == nil || len(page.ModifiedBy.Editors) == 0 {
		t.Fatalf("modifiedBy = %+v, want the manager recorded", page.ModifiedBy)
	}
	if got := page.ModifiedBy.Editors[0].UserID; got != testEnv.ManagerID {
		t.Errorf("modifiedBy editor = %d, want %d", got, testEnv.ManagerID)
	}

	// Published pages are public.
	resp = request(t, http.MethodGet, pagePath, "", nil)
	wantStatus(t, resp, http.StatusOK)

	// Clean up.
	resp = request(t, http.MethodDelete, pagePath, adminToken, nil)
	wantStatus(t, resp, http.StatusOK)

	resp = request(t, http.MethodGet, pagePath, adminToken, nil)
	wantStatus(t, resp, http.StatusNotFound)
}

// TestUserManagementWorkflow covers account creation, self-service
// updates, and the role change restriction.
func TestUserManagementWorkflow(t *testing.T) {
	resp := request(t, http.MethodPost, "/users", testEnv.AdminToken, map[string]string{
		"email":     "temp@folio.test",
		"password":  "T3mp-Secret!",
		"firstName": "Temp",
		"lastName":  "Account",
		"role":      "editor",
	})
	wantStatus(t, resp, http.StatusOK)

	var user api.User
	result(t, resp, &user)
	userPath := fmt.Sprintf("/users/%d", user.ID)

	// The new account can sign in.
	resp = request(t, http.MethodPost, "/sign-in", "",
		map[string]string{"email": "temp@folio.test", "password": "T3mp-Secret!"})
	wantStatus(t, resp, http.StatusOK)

	var tempToken string
	result(t, resp, &tempToken)

	// It can update its own profile but not its role.
	resp = request(t, http.MethodPatch, userPath, tempToken,
		map[string]string{"lastName": "Renamed"})
	wantStatus(t, resp, http.StatusOK)

	resp = request(t, http.MethodPatch, userPath, tempToken,
		map[string]string{"role": "admin"})
	wantStatus(t, resp, http.StatusMethodNotAllowed)

	// Another editor's account is out of reach entirely.
	resp = request(t, http.MethodGet, fmt.Sprintf("/users/%d", testEnv.EditorID), tempToken, nil)
	wantStatus(t, resp, http.StatusMethodNotAllowed)

	// The admin removes the account; its token then degrades to anonymous.
	resp = request(t, http.MethodDelete, userPath, testEnv.AdminToken, nil)
	wantStatus(t, resp, http.StatusOK)

	resp = request(t, http.MethodGet, userPath, tempToken, nil)
	wantStatus(t, resp, http.StatusMethodNotAllowed)
}

// TestNavigationWorkflow covers menu CRUD and its visibility rules.
func TestNavigationWorkflow(t *testing.T) {
	resp := request(t, http.MethodPost, "/navs", testEnv.ManagerToken, map[string]any{
		"name":  "primary",
		"pages": []map[string]int{{"id": 1}},
	})
	wantStatus(t, resp, http.StatusOK)

	var nav api.NavigationMenu
	result(t, resp, &nav)
	navPath := fmt.Sprintf("/navs/%d", nav.ID)

	// Menus are public reads.
	resp = request(t, http.MethodGet, navPath, "", nil)
	wantStatus(t, resp, http.StatusOK)

	// Editors cannot modify them.
	resp = request(t, http.MethodPatch, navPath, testEnv.EditorToken,
		map[string]string{"name": "hijacked"})
	wantStatus(t, resp, http.StatusMethodNotAllowed)

	resp = request(t, http.MethodDelete, navPath, testEnv.ManagerToken, nil)
	wantStatus(t, resp, http.StatusOK)
}
