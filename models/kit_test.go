package models

import (
	"encoding/json"
	"testing"
)

func kitWithItems(t *testing.T, items []KitItem) *USVBKit {
	t.Helper()
	raw, err := json.Marshal(items)
	if err != nil {
		t.Fatal(err)
	}
	return &USVBKit{KitNumber: "K-01", Name: "Vía aérea", Items: raw}
}

func TestAuditKit(t *testing.T) {
	kit := kitWithItems(t, []KitItem{
		{Name: "Guedel nº3", TargetQuantity: 2},
		{Name: "Mascarilla O2", TargetQuantity: 5},
		{Name: "Sonda aspiración", TargetQuantity: 4},
	})

	tests := []struct {
		name  string
		stock map[string]int
		want  []KitShortage
	}{
		{
			"fully stocked",
			map[string]int{"Guedel nº3": 2, "Mascarilla O2": 5, "Sonda aspiración": 6},
			nil,
		},
		{
			"partial and missing",
			map[string]int{"Guedel nº3": 1, "Mascarilla O2": 5},
			[]KitShortage{
				{Name: "Guedel nº3", TargetQuantity: 2, ActualQuantity: 1, Missing: 1},
				{Name: "Sonda aspiración", TargetQuantity: 4, ActualQuantity: 0, Missing: 4},
			},
		},
		{
			"empty ambulance",
			map[string]int{},
			[]KitShortage{
				{Name: "Guedel nº3", TargetQuantity: 2, ActualQuantity: 0, Missing: 2},
				{Name: "Mascarilla O2", TargetQuantity: 5, ActualQuantity: 0, Missing: 5},
				{Name: "Sonda aspiración", TargetQuantity: 4, ActualQuantity: 0, Missing: 4},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AuditKit(kit, tt.stock)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d shortages, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("shortage[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTargetItemsInvalidPayload(t *testing.T) {
	kit := &USVBKit{Items: []byte(`{"not":"a list"}`)}
	if items := kit.TargetItems(); items != nil {
		t.Errorf("TargetItems on invalid payload = %v, want nil", items)
	}
}
