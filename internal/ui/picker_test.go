package ui

import (
	"strings"
	"testing"

	"ghfetch/internal/github"
)

func TestFormatAssetItemsAlignsColumns(t *testing.T) {
	assets := []github.Asset{
		{Name: "a.zip", Size: 100},
		{Name: "a-much-longer-name.tar.gz", Size: 2048},
	}

	items := formatAssetItems(assets)
	if len(items) != 2 {
		t.Fatalf("item count = %d, want 2", len(items))
	}

	first := strings.Index(items[0], "100 B")
	second := strings.Index(items[1], "2.0 KiB")
	if first < 0 || second < 0 {
		t.Fatalf("sizes missing from items: %q", items)
	}
	if first != second {
		t.Errorf("size columns misaligned: %d vs %d", first, second)
	}
}

func TestFormatAssetItemsEmpty(t *testing.T) {
	if items := formatAssetItems(nil); len(items) != 0 {
		t.Errorf("expected no items, got %q", items)
	}
}
