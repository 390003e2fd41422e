package crawlers

import (
	"regexp"
	"strings"
)

// 清洗流水线的各步正则,顺序敏感
var (
	scriptBlockRegex  = regexp.MustCompile(`(?s)<script.*?>.*?</script>`)
	styleBlockRegex   = regexp.MustCompile(`(?s)<style.*?>.*?</style>`)
	commentBlockRegex = regexp.MustCompile(`(?s)<!--.*?-->`)
	lineBreakRegex    = regexp.MustCompile(`<br\s*/?>`)
	paragraphEndRegex = regexp.MustCompile(`</p>`)
	tagRegex          = regexp.MustCompile(`<[^>]+>`)

	// 形如 .leftflex0 的类名残留: 点号后接含数字的单词
	dottedIdentRegex = regexp.MustCompile(`\.[\p{L}\p{N}_]*\p{Nd}+[\p{L}\p{N}_]*`)

	// 保留字母、数字、下划线、空白和 ,.!?
	disallowedCharRegex = regexp.MustCompile(`[^\p{L}\p{N}_\s\v\p{Z}\x{85}\x{1c}-\x{1f},.!?]`)
	whitespaceRunRegex  = regexp.MustCompile(`[\s\v\p{Z}\x{85}\x{1c}-\x{1f}]+`)
)

// CleanText 将原始HTML清洗为纯文本
//
// 这是基于正则的启发式清洗,不是HTML解析器:
// 对不规范的标记既可能多删(标点和结构丢失)也可能少删(残留片段)。
// 输出只保证去掉了HTML噪声,不保证可读性。
func CleanText(raw string) string {
	text := scriptBlockRegex.ReplaceAllString(raw, "")
	text = styleBlockRegex.ReplaceAllString(text, "")
	text = commentBlockRegex.ReplaceAllString(text, "")

	text = lineBreakRegex.ReplaceAllString(text, "\n")
	text = paragraphEndRegex.ReplaceAllString(text, "\n")
	text = tagRegex.ReplaceAllString(text, " ")

	text = dottedIdentRegex.ReplaceAllString(text, "")
	text = disallowedCharRegex.ReplaceAllString(text, "")

	text = whitespaceRunRegex.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
