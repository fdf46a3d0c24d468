package services

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/ramener/internal/core/domain"
)

const maxGuessedTitleRunes = 120

var (
	pageTagPattern       = regexp.MustCompile(`\[Page \d+\]\s*`)
	whitespacePattern    = regexp.MustCompile(`\s+`)
	companySuffixPattern = regexp.MustCompile(`(股份有限责任公司|股份有限公司|集团股份有限公司|集团有限公司|有限责任公司|有限公司)$`)

	reportPattern = regexp.MustCompile(`(?i)` +
		`(?P<company>[\x{4e00}-\x{9fff}A-Za-z（）()·\s]{2,60}?)` +
		`\s*(?:股份有限责任公司|股份有限公司|集团股份有限公司|集团有限公司|有限责任公司|有限公司)?` +
		`\s*(?P<year>19\d{2}|20\d{2})年` +
		`\s*(?P<period>第?[一二三四1234]季度|半年度|半年|年度|上半年|下半年|全年)?` +
		`\s*(?P<type>报告书|报告|报)`)
)

// descriptorRules collapse verbose period/type phrasings. First contained key wins.
var descriptorRules = []struct {
	contains string
	label    string
}{
	{"半年度报告书", "半年报"},
	{"半年度报告", "半年报"},
	{"半年报告", "半年报"},
	{"年度报告书", "年报"},
	{"年度报告", "年报"},
	{"年报告", "年报"},
	{"报告书", "报告"},
}

// GuessTitle looks for a periodic-report heading such as
// "国投证券股份有限公司2023年半年度报告" and returns the first usable match,
// or nil when the text has none.
func GuessTitle(text string) *domain.TitleGuess {
	if text == "" {
		return nil
	}
	searchable := pageTagPattern.ReplaceAllLiteralString(text, " ")

	company := reportPattern.SubexpIndex("company")
	year := reportPattern.SubexpIndex("year")
	period := reportPattern.SubexpIndex("period")
	kind := reportPattern.SubexpIndex("type")

	for _, m := range reportPattern.FindAllStringSubmatch(searchable, -1) {
		org := normalizeCompany(m[company])
		if runeLen(org) < 2 {
			continue
		}
		descriptor := normalizeDescriptor(m[period], m[kind])

		title := org + " " + m[year] + " 年" + descriptor
		title = strings.TrimSpace(whitespacePattern.ReplaceAllString(title, " "))
		if title == "" {
			continue
		}
		return &domain.TitleGuess{Title: truncateRunes(title, maxGuessedTitleRunes), Source: org}
	}
	return nil
}

func normalizeCompany(name string) string {
	collapsed := strings.TrimSpace(whitespacePattern.ReplaceAllString(name, " "))
	collapsed = companySuffixPattern.ReplaceAllLiteralString(collapsed, "")
	return strings.Trim(collapsed, " _-")
}

func normalizeDescriptor(period, kind string) string {
	label := strings.TrimSpace(period) + strings.TrimSpace(kind)

	for _, rule := range descriptorRules {
		if strings.Contains(label, rule.contains) {
			return rule.label
		}
	}
	switch {
	case label == "报" || label == "报告":
		return "报告"
	case strings.Contains(label, "季度") && !strings.Contains(label, "报告"):
		return label + "报告"
	case label == "":
		return "报告"
	}
	return label
}
