package douban

import (
	"fmt"
	"strings"
	"testing"
)

func movieTable(title, href, score, pic string) string {
	return fmt.Sprintf(`
<table width="100%%">
  <tr class="item">
    <td width="100" valign="top">
      <a class="nbg" href="%s"><img src="%s" width="75"></a>
    </td>
    <td valign="top">
      <div class="pl2">
        <a href="%s">%s</a>
        <p class="pl">2026-07-18(中国大陆)</p>
        <div class="star clearfix">
          <span class="rating_nums">%s</span>
          <span class="pl">(12345人评价)</span>
        </div>
      </div>
    </td>
  </tr>
</table>`, href, pic, href, title, score)
}

func chartPage(tables ...string) string {
	return `<html><body><div class="article"><div class="indent">` +
		strings.Join(tables, "\n") +
		`</div></div></body></html>`
}

func TestParseChart(t *testing.T) {
	page := chartPage(
		movieTable("片名甲 / Alpha", "https://movie.example/1", "8.5", "https://img.example/1.jpg"),
		movieTable("片名乙", "https://movie.example/2", "6.1", "https://img.example/2.jpg"),
	)
	movies, err := ParseChart([]byte(page))
	if err != nil {
		t.Fatalf("ParseChart: %v", err)
	}
	if len(movies) != 2 {
		t.Fatalf("movie count = %d, want 2", len(movies))
	}
	// 斜杠分隔的别名只取第一段
	if movies[0].Title != "片名甲" {
		t.Errorf("title = %q, want 片名甲", movies[0].Title)
	}
	if movies[0].URL != "https://movie.example/1" {
		t.Errorf("url = %q", movies[0].URL)
	}
	if movies[0].Score != "8.5" {
		t.Errorf("score = %q", movies[0].Score)
	}
	if movies[0].Pic != "https://img.example/1.jpg" {
		t.Errorf("pic = %q", movies[0].Pic)
	}
}

func TestParseChartCapsAtTen(t *testing.T) {
	tables := make([]string, 0, 14)
	for i := 0; i < 14; i++ {
		tables = append(tables, movieTable(
			fmt.Sprintf("片子%d", i),
			fmt.Sprintf("https://movie.example/%d", i),
			"7.0",
			fmt.Sprintf("https://img.example/%d.jpg", i),
		))
	}
	movies, err := ParseChart([]byte(chartPage(tables...)))
	if err != nil {
		t.Fatalf("ParseChart: %v", err)
	}
	if len(movies) != 10 {
		t.Errorf("should cap at 10 movies, got %d", len(movies))
	}
}

func TestParseChartSkipsIncompleteEntries(t *testing.T) {
	incomplete := `<table><tr><td><div class="pl2"></div></td></tr></table>`
	page := chartPage(
		incomplete,
		movieTable("完整条目", "https://movie.example/ok", "9.0", "https://img.example/ok.jpg"),
	)
	movies, err := ParseChart([]byte(page))
	if err != nil {
		t.Fatalf("ParseChart: %v", err)
	}
	if len(movies) != 1 || movies[0].Title != "完整条目" {
		t.Errorf("movies = %+v", movies)
	}
}

func TestParseChartLayoutChanged(t *testing.T) {
	if _, err := ParseChart([]byte(`<html><body><p>改版了</p></body></html>`)); err == nil {
		t.Error("layout change should return an error")
	}
}
