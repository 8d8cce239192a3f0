package marketing

import (
	"strings"
	"testing"
	"time"

	"github.com/fixbroin/wecanfix-backend/pkg/marketing/types"
)

func TestResolveMergeTags(t *testing.T) {
	user := types.User{
		Email:        "jo@example.com",
		DisplayName:  "Jo",
		MobileNumber: "+491700000000",
		CreatedAt:    time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC).Unix(),
	}
	transport := *testTransportSettings()
	blocks := SharedBlocks{
		PopularServices:   "<ul><li>popular</li></ul>",
		PopularCategories: "<ul><li>popular cats</li></ul>",
		AllServices:       "<ul><li>all</li></ul>",
		AllCategories:     "<ul><li>all cats</li></ul>",
	}
	content := UserContent{
		CategoryServices: "<ul><li>cat svc</li></ul>",
		CartItems:        "<ul><li>Deep Cleaning (×2)</li></ul>",
		CartItemName:     "Deep Cleaning",
		CartLink:         "https://wecanfix.example/cart",
	}
	values := MergeTagValues(user, transport, blocks, content)

	t.Run("every documented tag resolves", func(t *testing.T) {
		template := "{{name}} {{email}} {{mobile}} {{signupDate}} {{websiteName}} {{websiteUrl}} " +
			"{{supportEmail}} {{companyAddress}} {{popular_services}} {{popular_categories}} " +
			"{{all_services}} {{all_categories}} {{cart_items}} {{cart_item_name}} {{cart_link}} {{category_services}}"
		resolved := ResolveMergeTags(template, values)

		for tag := range values {
			if strings.Contains(resolved, "{{"+tag+"}}") {
				t.Errorf("tag %s was not resolved", tag)
			}
		}
		if !strings.Contains(resolved, "jo@example.com") {
			t.Error("email value missing from output")
		}
	})

	t.Run("unknown tags pass through verbatim", func(t *testing.T) {
		resolved := ResolveMergeTags("Hi {{name}}, {{not_a_tag}}", values)
		if !strings.Contains(resolved, "{{not_a_tag}}") {
			t.Errorf("unknown tag must stay verbatim, got %q", resolved)
		}
	})

	t.Run("tags replaced globally", func(t *testing.T) {
		resolved := ResolveMergeTags("{{name}} and {{name}}", values)
		if resolved != "Jo and Jo" {
			t.Errorf("unexpected result: %q", resolved)
		}
	})

	t.Run("empty display name falls back", func(t *testing.T) {
		anonymous := MergeTagValues(types.User{}, transport, blocks, content)
		if anonymous["name"] != "there" {
			t.Errorf("unexpected name fallback: %q", anonymous["name"])
		}
	})

	t.Run("missing createdAt yields empty signup date", func(t *testing.T) {
		anonymous := MergeTagValues(types.User{}, transport, blocks, content)
		if anonymous["signupDate"] != "" {
			t.Errorf("unexpected signup date: %q", anonymous["signupDate"])
		}
	})
}

func TestRenderBody(t *testing.T) {
	values := map[string]string{"name": "Jo"}

	body := RenderBody("Hi {{name}},\nwelcome back.\r\nBye", values)
	expected := "Hi Jo,<br/>welcome back.<br/>Bye"
	if body != expected {
		t.Errorf("expected %q, got %q", expected, body)
	}
}

func TestRenderLinkList(t *testing.T) {
	t.Run("empty list renders empty string", func(t *testing.T) {
		if got := RenderLinkList(nil); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})

	t.Run("labels are escaped", func(t *testing.T) {
		got := RenderLinkList([]ContentLink{{Label: "Sofa & Chair", URL: "https://x/s"}})
		expected := `<ul><li><a href="https://x/s">Sofa &amp; Chair</a></li></ul>`
		if got != expected {
			t.Errorf("expected %q, got %q", expected, got)
		}
	})
}
