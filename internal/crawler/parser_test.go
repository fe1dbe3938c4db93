package crawler

import (
	"slices"
	"strings"
	"testing"
)

func TestParser(t *testing.T) {
	t.Parallel()

	const doc = `<!DOCTYPE html>
<html>
<head>
  <title> Habari za Nairobi </title>
  <meta name="description" content="Habari mpya kila siku">
  <meta name="Keywords" content="siasa, michezo">
  <meta name="viewport" content="width=device-width">
  <style>body { color: red; }</style>
  <script>var hidden = "scriptword";</script>
</head>
<body>
  <h1>Karibu</h1>
  <h3>Michezo <span>leo</span></h3>
  <p>Mvua kubwa imenyesha.</p>
  <noscript>washa javascript</noscript>
  <a href="/habari/1">one</a>
  <a href="https://other.example/x">two</a>
  <a href="javascript:void(0)">js</a>
  <a href="mailto:mhariri@habari.co.ke">mail</a>
  <a href="#">top</a>
  <img src="picha.jpg">
</body>
</html>`

	parser, err := NewParser("https://habari.co.ke/index.html")
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	result, err := parser.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	t.Run("title", func(t *testing.T) {
		t.Parallel()
		if result.Title != "Habari za Nairobi" {
			t.Errorf("Title = %q", result.Title)
		}
	})

	t.Run("meta description and keywords only", func(t *testing.T) {
		t.Parallel()
		want := []string{"Habari mpya kila siku", "siasa, michezo"}
		if !slices.Equal(result.Meta, want) {
			t.Errorf("Meta = %q, want %q", result.Meta, want)
		}
	})

	t.Run("headings", func(t *testing.T) {
		t.Parallel()
		if len(result.Headings) != 2 || result.Headings[0] != "Karibu" {
			t.Errorf("Headings = %q", result.Headings)
		}
		if !strings.Contains(result.Headings[1], "leo") {
			t.Errorf("expected nested heading text, got %q", result.Headings[1])
		}
	})

	t.Run("body skips invisible elements", func(t *testing.T) {
		t.Parallel()
		body := strings.Join(result.Body, " ")
		if !strings.Contains(body, "Mvua kubwa imenyesha.") {
			t.Errorf("expected paragraph text in body: %q", body)
		}
		for _, hidden := range []string{"scriptword", "color: red", "washa javascript", "Habari za Nairobi"} {
			if strings.Contains(body, hidden) {
				t.Errorf("body must not contain %q: %q", hidden, body)
			}
		}
	})

	t.Run("links resolved and filtered", func(t *testing.T) {
		t.Parallel()
		want := []string{"https://habari.co.ke/habari/1", "https://other.example/x"}
		if !slices.Equal(result.Links, want) {
			t.Errorf("Links = %q, want %q", result.Links, want)
		}
	})

	t.Run("images resolved", func(t *testing.T) {
		t.Parallel()
		if !slices.Equal(result.Images, []string{"https://habari.co.ke/picha.jpg"}) {
			t.Errorf("Images = %q", result.Images)
		}
	})

	t.Run("text order", func(t *testing.T) {
		t.Parallel()
		text := result.Text()
		if len(text) < 5 || text[0] != "Habari za Nairobi" || text[1] != "Habari mpya kila siku" || text[3] != "Karibu" {
			t.Errorf("unexpected text order: %q", text)
		}
	})
}

func TestParserMalformedHTML(t *testing.T) {
	t.Parallel()

	parser, err := NewParser("http://example.test/")
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	result, err := parser.Parse(strings.NewReader("<html><body><p>jambo <b>rafiki<p>tena</div></span>"))
	if err != nil {
		t.Fatalf("malformed HTML must still parse: %v", err)
	}
	if !strings.Contains(strings.Join(result.Body, " "), "rafiki") {
		t.Errorf("expected recovered text, got %q", result.Body)
	}
}
