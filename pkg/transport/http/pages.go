package http

import (
	"net/http"

	"github.com/rgrenier/folio/pkg/api"
	"github.com/rgrenier/folio/pkg/auth"
	"github.com/rgrenier/folio/pkg/schema"
	"github.com/rgrenier/folio/pkg/storage"
	"github.com/rgrenier/folio/pkg/transport"
)

// handleListPages handles GET /pages. Anonymous callers see published
// pages only; the draft filter requires authentication.
func (h *Handlers) handleListPages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	in, apiErr := decodeInput(r)
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}
	values, apiErr := validate(listPagesSchema, in)
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}

	filterStatus := values.String(schema.Query, "filterStatus")

	// An explicit draft filter is a read of unpublished content; the
	// policy denies it to anonymous callers.
	op := auth.Operation{Resource: auth.ResourcePages, Action: auth.ActionRead}
	if err := h.authorize(ctx, op, auth.ResourceState{PageStatus: filterStatus}); err != nil {
		transport.WriteError(w, err)
		return
	}

	filter := storage.PageFilter{Status: filterStatus}
	if auth.IdentityFromContext(ctx) == nil {
		filter = storage.PageFilter{PublishedOnly: true}
	}

	pages, total, err := h.store.ListPages(ctx, listOptionsFrom(values), filter)
	if err != nil {
		transport.WriteError(w, h.storeError(ctx, "listing pages", err))
		return
	}

	if pages == nil {
		pages = []api.Page{}
	}
	transport.WriteResult(w, http.StatusOK, listResult{Results: pages, Total: total})
}

// handleGetPage handles GET /pages/{pageID}. The status gate needs the
// record, so this is the one read where the fetch precedes the policy
// check; a missing page is a plain 404 because the read itself is public.
func (h *Handlers) handleGetPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	in, apiErr := decodeInput(r, "pageID")
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}
	values, apiErr := validate(getPageSchema, in)
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}

	page, err := h.store.PageByID(ctx, values.Int(schema.Params, "pageID"))
	if err != nil {
		transport.WriteError(w, h.storeError(ctx, "fetching page", err))
		return
	}

	op := auth.Operation{Resource: auth.ResourcePages, Action: auth.ActionRead}
	if err := h.authorize(ctx, op, auth.ResourceState{PageStatus: page.Status}); err != nil {
		transport.WriteError(w, err)
		return
	}

	transport.WriteResult(w, http.StatusOK, page)
}

// handleCreatePage handles POST /pages. Admin or manager; the creator is
// always the authenticated subject, never client input.
func (h *Handlers) handleCreatePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	in, apiErr := decodeInput(r)
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}
	values, apiErr := validate(createPageSchema, in)
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}

	op := auth.Operation{Resource: auth.ResourcePages, Action: auth.ActionCreate, RequiresAuth: true}
	if err := h.authorize(ctx, op, auth.ResourceState{}); err != nil {
		transport.WriteError(w, err)
		return
	}

	id := auth.IdentityFromContext(ctx)

	page, err := h.store.CreatePage(ctx, &api.Page{
		Title:     values.String(schema.Body, "title"),
		Content:   values.String(schema.Body, "content"),
		URL:       values.String(schema.Body, "url"),
		CreatorID: id.UserID,
	})
	if err != nil {
		transport.WriteError(w, h.storeError(ctx, "creating page", err))
		return
	}

	transport.WriteResult(w, http.StatusOK, page)
}

// handleUpdatePage handles PATCH /pages/{pageID}. Admin or manager; every
// update appends the subject to the page's modifiedBy trail.
func (h *Handlers) handleUpdatePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	in, apiErr := decodeInput(r, "pageID")
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}
	values, apiErr := validate(updatePageSchema, in)
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}

	op := auth.Operation{Resource: auth.ResourcePages, Action: auth.ActionUpdate, RequiresAuth: true}
	if err := h.authorize(ctx, op, auth.ResourceState{}); err != nil {
		transport.WriteError(w, err)
		return
	}

	id := auth.IdentityFromContext(ctx)
	patch := storage.PagePatch{AddEditor: id.UserID}

	if values.Has(schema.Body, "title") {
		title := values.String(schema.Body, "title")
		patch.Title = &title
	}
	if values.Has(schema.Body, "content") {
		content := values.String(schema.Body, "content")
		patch.Content = &content
	}
	if values.Has(schema.Body, "url") {
		url := values.String(schema.Body, "url")
		patch.URL = &url
	}
	if values.Has(schema.Body, "status") {
		status := values.String(schema.Body, "status")
		patch.Status = &status
	}

	page, err := h.store.UpdatePage(ctx, values.Int(schema.Params, "pageID"), patch)
	if err != nil {
		transport.WriteError(w, h.storeError(ctx, "updating page", err))
		return
	}

	transport.WriteResult(w, http.StatusOK, page)
}

// handleDeletePage handles DELETE /pages/{pageID}. Admin or manager.
func (h *Handlers) handleDeletePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	in, apiErr := decodeInput(r, "pageID")
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}
	values, apiErr := validate(deletePageSchema, in)
	if apiErr != nil {
		transport.WriteError(w, apiErr)
		return
	}

	pageID := values.Int(schema.Params, "pageID")

	op := auth.Operation{Resource: auth.ResourcePages, Action: auth.ActionDelete, RequiresAuth: true}
	if err := h.authorize(ctx, op, auth.ResourceState{}); err != nil {
		transport.WriteError(w, err)
		return
	}

	if err := h.store.DeletePage(ctx, pageID); err != nil {
		transport.WriteError(w, h.storeError(ctx, "deleting page", err))
		return
	}

	transport.WriteResult(w, http.StatusOK, pageID)
}
