package models

import (
	"encoding/json"
	"testing"
)

// TestBlogCategoryValid verifies that only the fixed enum values are accepted.
func TestBlogCategoryValid(t *testing.T) {
	tests := []struct {
		name string
		cat  BlogCategory
		want bool
	}{
		{name: "research", cat: BlogCategoryResearch, want: true},
		{name: "company news", cat: BlogCategoryCompanyNews, want: true},
		{name: "events", cat: BlogCategoryEvents, want: true},
		{name: "empty", cat: BlogCategory(""), want: false},
		{name: "unknown", cat: BlogCategory("astrology"), want: false},
		{name: "uppercase RESEARCH", cat: BlogCategory("RESEARCH"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cat.Valid(); got != tt.want {
				t.Errorf("BlogCategory(%q).Valid() = %v, want %v", tt.cat, got, tt.want)
			}
		})
	}
}

// TestDefaultBlogCategoryIsAllowed guards against a default outside the enum.
func TestDefaultBlogCategoryIsAllowed(t *testing.T) {
	if !DefaultBlogCategory.Valid() {
		t.Errorf("default blog category %q is not in the allowed set", DefaultBlogCategory)
	}
}

func TestStringListScan(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want []string
	}{
		{name: "nil", src: nil, want: []string{}},
		{name: "bytes", src: []byte(`["a","b"]`), want: []string{"a", "b"}},
		{name: "string", src: `["ngs"]`, want: []string{"ngs"}},
		{name: "json null", src: []byte(`null`), want: []string{}},
		{name: "order preserved", src: `["z","a","m"]`, want: []string{"z", "a", "m"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l StringList
			if err := l.Scan(tt.src); err != nil {
				t.Fatalf("Scan: %v", err)
			}
			if len(l) != len(tt.want) {
				t.Fatalf("len = %d, want %d (%v)", len(l), len(tt.want), l)
			}
			for i := range tt.want {
				if l[i] != tt.want[i] {
					t.Errorf("[%d] = %q, want %q", i, l[i], tt.want[i])
				}
			}
		})
	}
}

func TestStringListScanRejectsUnknownType(t *testing.T) {
	var l StringList
	if err := l.Scan(42); err == nil {
		t.Error("expected error scanning an int")
	}
}

func TestStringListValueNil(t *testing.T) {
	var l StringList
	v, err := l.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if v != "[]" {
		t.Errorf("Value() = %v, want []", v)
	}
}

func TestNullableIDUnmarshal(t *testing.T) {
	t.Run("absent key leaves it unset", func(t *testing.T) {
		var p NewsBlogPatch
		if err := json.Unmarshal([]byte(`{"title":"x"}`), &p); err != nil {
			t.Fatal(err)
		}
		if p.CategoryID.Set {
			t.Error("CategoryID.Set = true, want false")
		}
	})

	t.Run("explicit null clears", func(t *testing.T) {
		var p NewsBlogPatch
		if err := json.Unmarshal([]byte(`{"category_id":null}`), &p); err != nil {
			t.Fatal(err)
		}
		if !p.CategoryID.Set || p.CategoryID.ID != nil {
			t.Errorf("got %+v, want Set with nil ID", p.CategoryID)
		}
	})

	t.Run("value sets id", func(t *testing.T) {
		var p NewsBlogPatch
		if err := json.Unmarshal([]byte(`{"subcategory_id":7}`), &p); err != nil {
			t.Fatal(err)
		}
		if !p.SubcategoryID.Set || p.SubcategoryID.ID == nil || *p.SubcategoryID.ID != 7 {
			t.Errorf("got %+v, want Set with 7", p.SubcategoryID)
		}
	})

	t.Run("bad value errors", func(t *testing.T) {
		var p NewsBlogPatch
		if err := json.Unmarshal([]byte(`{"category_id":"seven"}`), &p); err == nil {
			t.Error("expected error for string id")
		}
	})
}

func TestNewsBlogImage(t *testing.T) {
	n := &NewsBlog{}
	if n.Image() != "" {
		t.Errorf("Image() = %q, want empty", n.Image())
	}
	n.Images = StringList{"https://cdn.example/first.jpg", "https://cdn.example/second.jpg"}
	if n.Image() != "https://cdn.example/first.jpg" {
		t.Errorf("Image() = %q, want first image", n.Image())
	}
}

func TestCategoryPatchApply(t *testing.T) {
	desc := "old"
	c := &Category{Name: "Research", Slug: "research", Description: &desc, OrderIndex: 2, Active: true}

	name := "Research & Development"
	active := false
	p := &CategoryPatch{Name: &name, Active: &active}
	p.Apply(c)

	if c.Name != name {
		t.Errorf("Name = %q, want %q", c.Name, name)
	}
	if c.Slug != "research" {
		t.Errorf("Slug changed to %q, want research", c.Slug)
	}
	if c.Description == nil || *c.Description != "old" {
		t.Errorf("Description changed: %v", c.Description)
	}
	if c.OrderIndex != 2 {
		t.Errorf("OrderIndex = %d, want 2", c.OrderIndex)
	}
	if c.Active {
		t.Error("Active = true, want false")
	}
}

func TestSubcategoryPatchApplyReparents(t *testing.T) {
	s := &Subcategory{CategoryID: 1, Name: "AI", Slug: "ai"}
	newParent := int64(2)
	(&SubcategoryPatch{CategoryID: &newParent}).Apply(s)
	if s.CategoryID != 2 {
		t.Errorf("CategoryID = %d, want 2", s.CategoryID)
	}
	if s.Slug != "ai" {
		t.Errorf("Slug = %q, want ai", s.Slug)
	}
}
