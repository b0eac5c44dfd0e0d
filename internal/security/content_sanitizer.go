// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizer はカタログファイル経由で混入したスクリプト等を描画前に取り除く。
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizer は商品データのサニタイズ機能のインターフェースを定義する。
type ContentSanitizer interface {
	// Sanitize は商品説明のHTMLをサニタイズする。
	// 許可タグ（p, br, ul, ol, li, strong, em）のみを通過させ、属性はすべて除去する。
	Sanitize(rawHTML string) string
	// PlainText はタグをすべて除去したプレーンテキストを返す。商品名に使う。
	// 前後の空白は取り除き、文字参照はデコードする。
	PlainText(raw string) string
}

type contentSanitizer struct {
	description *bluemonday.Policy
	strict      *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerの新しいインスタンスを生成する。
// 商品説明は短い書式付きテキストに限るため、リンクと画像は許可しない。
// bluemondayのポリシーはゴルーチン間で共有できる。
func NewContentSanitizer() ContentSanitizer {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"p", "br", "ul", "ol", "li",
		"strong", "em",
	)

	return &contentSanitizer{
		description: p,
		strict:      bluemonday.StrictPolicy(),
	}
}

func (s *contentSanitizer) Sanitize(rawHTML string) string {
	return s.description.Sanitize(rawHTML)
}

// 描画時にhtml/templateがエスケープするため、文字参照を解いた文字列を返す。
func (s *contentSanitizer) PlainText(raw string) string {
	return strings.TrimSpace(html.UnescapeString(s.strict.Sanitize(raw)))
}
