package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewSlotRef(t *testing.T) {
	recipeID := uuid.New()
	eventID := uuid.New()

	tests := []struct {
		name     string
		recipeID *uuid.UUID
		eventID  *uuid.UUID
		wantKind RefKind
		wantErr  bool
	}{
		{name: "recipe only", recipeID: &recipeID, wantKind: RefRecipe},
		{name: "event only", eventID: &eventID, wantKind: RefEvent},
		{name: "both", recipeID: &recipeID, eventID: &eventID, wantErr: true},
		{name: "neither", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ref, err := NewSlotRef(tc.recipeID, tc.eventID)
			if tc.wantErr {
				if !errors.Is(err, ErrSlotRef) {
					t.Fatalf("expected ErrSlotRef, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ref.Kind != tc.wantKind {
				t.Fatalf("expected kind %q, got %q", tc.wantKind, ref.Kind)
			}
		})
	}
}

func TestSlotRefColumnValues(t *testing.T) {
	id := uuid.New()

	recipeRef, err := NewSlotRef(&id, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := recipeRef.RecipeID(); got == nil || *got != id {
		t.Fatalf("expected recipe id %s, got %v", id, got)
	}
	if got := recipeRef.EventID(); got != nil {
		t.Fatalf("expected nil event id, got %v", got)
	}

	eventRef, err := NewSlotRef(nil, &id)
	if err != nil {
		t.Fatal(err)
	}
	if got := eventRef.EventID(); got == nil || *got != id {
		t.Fatalf("expected event id %s, got %v", id, got)
	}
	if got := eventRef.RecipeID(); got != nil {
		t.Fatalf("expected nil recipe id, got %v", got)
	}
}

func TestMealTypeValid(t *testing.T) {
	for _, mt := range []MealType{MealBreakfast, MealLunch, MealDinner} {
		if !mt.Valid() {
			t.Errorf("expected %q to be valid", mt)
		}
	}
	if MealType("brunch").Valid() {
		t.Error("expected brunch to be invalid")
	}
}
