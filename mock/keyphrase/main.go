package main

import (
	"log"
	"net/http"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/goccy/go-json"
)

const (
	endpoint   = "/models/ml6team/keyphrase-extraction-kbir-openkp"
	maxPhrases = 4
)

type request struct {
	Inputs string `json:"inputs"`
}

type keyphrase struct {
	EntityGroup string  `json:"entity_group"`
	Score       float64 `json:"score"`
	Word        string  `json:"word"`
	Start       int     `json:"start"`
	End         int     `json:"end"`
}

var stopwords = map[string]bool{
	"with": true, "from": true, "that": true, "this": true, "into": true,
	"inch": true, "pair": true, "pack": true, "for": true, "and": true, "the": true,
}

// extract returns the longest distinct words of text as keyphrases.
func extract(text string) []keyphrase {
	type token struct {
		word       string
		start, end int
	}

	var tokens []token
	seen := make(map[string]bool)
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		w := text[start:end]
		lw := strings.ToLower(w)
		if len(w) > 3 && !stopwords[lw] && !seen[lw] {
			seen[lw] = true
			tokens = append(tokens, token{word: w, start: start, end: end})
		}
		start = -1
	}
	for i, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(text))

	sort.SliceStable(tokens, func(i, j int) bool { return len(tokens[i].word) > len(tokens[j].word) })
	if len(tokens) > maxPhrases {
		tokens = tokens[:maxPhrases]
	}

	out := make([]keyphrase, len(tokens))
	for i, t := range tokens {
		out[i] = keyphrase{
			EntityGroup: "KEY",
			Score:       0.99 - float64(i)*0.05,
			Word:        t.word,
			Start:       t.start,
			End:         t.end,
		}
	}

	return out
}

func main() {
	http.HandleFunc(endpoint, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		// Simulate inference latency (100-300ms)
		time.Sleep(time.Duration(100+time.Now().UnixNano()%200) * time.Millisecond)

		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Inputs) == "" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"inputs is required"}`))
			return
		}

		body, err := json.Marshal([][]keyphrase{extract(req.Inputs)})
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(body); err != nil {
			log.Printf("[Keyphrase] Write error: %v", err)
		}

		log.Printf("[Keyphrase] %s %s - 200 OK", r.Method, r.URL.Path)
	})

	http.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"healthy"}`)); err != nil {
			log.Printf("[Keyphrase] Health write error: %v", err)
		}
	})

	log.Println("Mock keyphrase service running on :8081")
	server := &http.Server{
		Addr:         ":8081",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
