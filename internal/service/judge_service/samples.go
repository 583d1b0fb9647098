package judge_service

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

// outerHTML renders every node of the selection, matching jsoup's
// Elements.outerHtml. goquery.OuterHtml alone renders only the first
// node.
func outerHTML(sel *goquery.Selection) string {
	var builder strings.Builder
	for i := range sel.Nodes {
		html, err := goquery.OuterHtml(sel.Eq(i))
		if err != nil {
			log.Warnf("cannot render node %d of selection: %v", i, err)
			continue
		}
		builder.WriteString(html)
	}
	return builder.String()
}

// ownText returns the text directly inside the first node of the
// selection, excluding child elements, matching jsoup's ownText.
func ownText(sel *goquery.Selection) string {
	var builder strings.Builder
	sel.Contents().Each(func(_ int, child *goquery.Selection) {
		if goquery.NodeName(child) == "#text" {
			builder.WriteString(child.Text())
		}
	})
	return strings.TrimSpace(builder.String())
}

// buildSampleTable folds a raw sample-input block and its matching
// sample-output block into one side-by-side table, optionally carrying
// the judge's explanation note below it.
func buildSampleTable(sampleInput, sampleOutput, note string) string {
	return fmt.Sprintf(`<div class="sampleTests ps-5 pe-5">
    <table class="table table-bordered sample">
        <thead>
            <tr style="background-color:#ebebeb">
                <th class="w-50">Input</th>
                <th class="w-50">Output</th>
            </tr>
        </thead>
        <tbody>
            <tr>
                <td class="text-start"> %s </td>
                <td class="text-start"> %s </td>
            </tr>
        </tbody>
    </table>
    <section>%s</section>
</div>
`, sampleInput, sampleOutput, note)
}
