package kql

import (
	"errors"
	"strings"
	"testing"
)

const (
	fixtureA = "3C8349098F35E54D99689ADCB168C789000B047642A90000"
	fixtureB = "00112233445566778899AABBCCDDEEFF0011223344556677"
	fixtureC = "aabbccddeeff00112233445566778899aabbccddeeff0011"
)

func TestBuildFolderQueryEmpty(t *testing.T) {
	got, err := BuildFolderQuery(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Fatalf("empty batch must yield empty string, got %q", got)
	}
}

func TestBuildFolderQuerySingle(t *testing.T) {
	got, err := BuildFolderQuery([]string{fixtureA})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "folderid:" + fixtureA
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestBuildFolderQueryPreservesOrder(t *testing.T) {
	got, err := BuildFolderQuery([]string{fixtureB, fixtureA, fixtureC})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "folderid:" + fixtureB + " OR folderid:" + fixtureA + " OR folderid:" + fixtureC
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if strings.Count(got, "folderid:") != 3 {
		t.Fatalf("expected exactly one clause per input, got %q", got)
	}
}

func TestBuildFolderQueryRejectsBadLength(t *testing.T) {
	got, err := BuildFolderQuery([]string{fixtureA, "short"})
	if err == nil {
		t.Fatalf("expected error, got %q", got)
	}
	if got != "" {
		t.Fatalf("no partial query may be returned, got %q", got)
	}
	var invalid *InvalidQueryIDError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidQueryIDError, got %v", err)
	}
	if invalid.Value != "short" {
		t.Fatalf("error must name the offending value, got %q", invalid.Value)
	}
}

func TestBuildFolderQueryRejectsNonHex(t *testing.T) {
	bad := strings.Repeat("G", QueryIDLength)
	got, err := BuildFolderQuery([]string{bad, fixtureA})
	if err == nil {
		t.Fatalf("expected error, got %q", got)
	}
	var invalid *InvalidQueryIDError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidQueryIDError, got %v", err)
	}
	if invalid.Value != bad {
		t.Fatalf("error must name the offending value, got %q", invalid.Value)
	}
	if got != "" {
		t.Fatalf("no partial query may be returned, got %q", got)
	}
}

func TestValidateQueryIDTable(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "uppercase", id: fixtureA},
		{name: "lowercase", id: fixtureC},
		{name: "empty", id: "", wantErr: true},
		{name: "too-long", id: fixtureA + "00", wantErr: true},
		{name: "trailing-space", id: fixtureA[:47] + " ", wantErr: true},
		{name: "punctuation", id: fixtureA[:47] + ":", wantErr: true},
	}
	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			err := validateQueryID(tc.id)
			if tc.wantErr && err == nil {
				t.Fatalf("expected error for %q", tc.id)
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
