package marketing

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/fixbroin/wecanfix-backend/pkg/marketing/types"
)

const signupDateFormat = "Jan 2, 2006"

// ContentLink is a (label, deep link) pair; markup rendering is deferred to
// RenderLinkList so content logic stays testable independent of markup.
type ContentLink struct {
	Label string
	URL   string
}

func RenderLinkList(links []ContentLink) string {
	if len(links) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("<ul>")
	for _, link := range links {
		sb.WriteString(fmt.Sprintf(`<li><a href="%s">%s</a></li>`, link.URL, html.EscapeString(link.Label)))
	}
	sb.WriteString("</ul>")
	return sb.String()
}

func RenderLineList(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("<ul>")
	for _, line := range lines {
		sb.WriteString("<li>" + html.EscapeString(line) + "</li>")
	}
	sb.WriteString("</ul>")
	return sb.String()
}

// MergeTagValues computes the full merge-tag vocabulary for one user.
func MergeTagValues(user types.User, transport types.TransportSettings, blocks SharedBlocks, content UserContent) map[string]string {
	name := user.DisplayName
	if name == "" {
		name = "there"
	}
	signupDate := ""
	if user.CreatedAt > 0 {
		signupDate = time.Unix(user.CreatedAt, 0).Format(signupDateFormat)
	}

	return map[string]string{
		"name":       name,
		"email":      user.Email,
		"mobile":     user.MobileNumber,
		"signupDate": signupDate,

		"websiteName":    transport.WebsiteName,
		"websiteUrl":     transport.WebsiteURL,
		"supportEmail":   transport.SupportEmail,
		"companyAddress": transport.CompanyAddress,

		"popular_services":   blocks.PopularServices,
		"popular_categories": blocks.PopularCategories,
		"all_services":       blocks.AllServices,
		"all_categories":     blocks.AllCategories,

		"cart_items":        content.CartItems,
		"cart_item_name":    content.CartItemName,
		"cart_link":         content.CartLink,
		"category_services": content.CategoryServices,
	}
}

// ResolveMergeTags replaces every known {{tag}} globally. Placeholders without
// a supplied value are left verbatim.
func ResolveMergeTags(template string, values map[string]string) string {
	resolved := template
	for tag, value := range values {
		resolved = strings.ReplaceAll(resolved, "{{"+tag+"}}", value)
	}
	return resolved
}

// RenderBody resolves merge tags and converts newlines to line-break markup
// for the HTML mail body.
func RenderBody(template string, values map[string]string) string {
	body := ResolveMergeTags(template, values)
	body = strings.ReplaceAll(body, "\r\n", "\n")
	return strings.ReplaceAll(body, "\n", "<br/>")
}
