package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rgrenier/folio/pkg/api"
	"github.com/rgrenier/folio/pkg/auth"
	"github.com/rgrenier/folio/pkg/credential"
	"github.com/rgrenier/folio/pkg/schema"
	"github.com/rgrenier/folio/pkg/token"
)

func main() {
	fmt.Println("=== folio core pipeline demo ===")
	fmt.Println()

	// 1. Validate a request body against a declarative schema
	signInSchema := schema.Set{
		Body: []schema.Field{
			{Name: "email", Kind: schema.Email, Required: true, Lowercase: true},
			{Name: "password", Kind: schema.String, Required: true},
		},
	}

	values, violations := schema.Validate(signInSchema, schema.Input{
		schema.Body: {"email": "Ada@Example.com", "password": "Sup3r-Secret!"},
	})
	if len(violations) > 0 {
		fmt.Printf("Validation FAILED: %v\n", violations)
		return
	}
	fmt.Println("[1] Request validated successfully")

	email := values.String(schema.Body, "email")
	password := values.String(schema.Body, "password")
	fmt.Printf("    normalized email: %s\n", email)

	// 2. Derive and verify a password hash
	hasher, err := credential.New(credential.Config{
		Pepper:     "demo-pepper",
		SaltLength: 16,
		Iterations: 1000,
		KeyLength:  32,
		Digest:     "sha256",
	})
	if err != nil {
		fmt.Printf("Hasher FAILED: %v\n", err)
		return
	}
	hash, salt, err := hasher.Derive(password, nil)
	if err != nil {
		fmt.Printf("Derivation FAILED: %v\n", err)
		return
	}
	fmt.Printf("\n[2] Derived %d-byte hash with %d-byte salt\n", len(hash), len(salt))
	fmt.Printf("    verify(correct password) = %v\n", hasher.Verify(password, hash, salt))
	fmt.Printf("    verify(wrong password)   = %v\n", hasher.Verify("nope", hash, salt))

	// 3. Issue and verify a bearer token
	tokens, err := token.New([]byte("demo-secret"), 48*time.Hour)
	if err != nil {
		fmt.Printf("Token service FAILED: %v\n", err)
		return
	}
	bearer, err := tokens.Issue(42)
	if err != nil {
		fmt.Printf("Issuing FAILED: %v\n", err)
		return
	}
	subject, err := tokens.Verify(bearer)
	if err != nil {
		fmt.Printf("Verification FAILED: %v\n", err)
		return
	}
	fmt.Printf("\n[3] Issued bearer token, verified subject = user %d\n", subject)

	// 4. Evaluate policy decisions for each role
	createPages := auth.Operation{
		Resource:     auth.ResourcePages,
		Action:       auth.ActionCreate,
		RequiresAuth: true,
	}

	fmt.Println("\n[4] Policy decisions for creating a page:")
	fmt.Printf("    editor:    %s\n", describe(auth.Authorize(
		&auth.Identity{UserID: 2}, &api.Role{ID: api.RoleEditor, Name: "editor"},
		createPages, auth.ResourceState{})))
	fmt.Printf("    manager:   %s\n", describe(auth.Authorize(
		&auth.Identity{UserID: 3}, &api.Role{ID: api.RoleManager, Name: "manager"},
		createPages, auth.ResourceState{})))
	fmt.Printf("    anonymous: %s\n", describe(auth.Authorize(
		nil, nil, createPages, auth.ResourceState{})))

	// 5. Show the wire envelopes
	page := api.Page{
		ID:        1,
		Title:     "Welcome",
		URL:       "/welcome",
		CreatorID: 42,
		Status:    api.PageStatusPublished,
	}
	resultJSON, _ := json.MarshalIndent(api.ResultResponse{Result: page}, "", "  ")
	fmt.Printf("\n[5] Result envelope:\n%s\n", resultJSON)

	errJSON, _ := json.Marshal(api.ErrorResponse{Error: "Forbidden"})
	fmt.Printf("\n    Error envelope: %s\n", errJSON)

	fmt.Println("\n=== demo complete ===")
}

func describe(err error) string {
	if err != nil {
		return "denied"
	}
	return "allowed"
}
