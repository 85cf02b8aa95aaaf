// Demo walkthrough of the webkit cache and validation packages.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ekinsoft/webkit/cache"
	"github.com/ekinsoft/webkit/cache/storage"
	"github.com/ekinsoft/webkit/internal/config"
	"github.com/ekinsoft/webkit/validate"
)

func main() {
	cfg, err := config.Load(os.Getenv("WEBKIT_CONFIG"))
	if err != nil {
		log.Fatal(err)
	}

	store, err := buildStore(cfg.Cache)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	ctx := context.Background()

	// ================= NAMESPACED MANAGERS =================
	fmt.Println("== namespaced managers ==")

	content, err := cache.New(cache.Options{
		Namespace:       "content",
		TTL:             cfg.Cache.TTL,
		MaxSize:         cfg.Cache.MaxSize,
		Store:           store,
		CleanupInterval: cfg.Cache.CleanupInterval,
		SingleFlight:    cfg.Cache.SingleFlight,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer content.Close()

	api, err := cache.New(cache.Options{
		Namespace: "api",
		Store:     store,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer api.Close()

	content.Set("page:home", map[string]any{"title": "Anasayfa"})
	api.Set("health", "ok")

	fmt.Println("content keys:", content.Stats().Keys)
	fmt.Println("api keys:    ", api.Stats().Keys)

	// ================= EXPIRY =================
	fmt.Println("\n== expiry ==")

	content.SetTTL("flash", "kampanya", 500*time.Millisecond)
	if v, ok := content.Get("flash"); ok {
		fmt.Println("before TTL:", v)
	}
	time.Sleep(600 * time.Millisecond)
	if _, ok := content.Get("flash"); !ok {
		fmt.Println("after TTL: gone")
	}

	// ================= EVICTION =================
	fmt.Println("\n== oldest-first eviction ==")

	small, _ := cache.New(cache.Options{Namespace: "small", MaxSize: 2, CleanupInterval: -1})
	defer small.Close()

	small.Set("first", 1)
	time.Sleep(5 * time.Millisecond)
	small.Set("second", 2)
	time.Sleep(5 * time.Millisecond)
	small.Set("third", 3) // evicts "first"
	fmt.Println("kept:", small.Stats().Keys)

	// ================= MEMOIZED FETCH =================
	fmt.Println("\n== memoized fetch ==")

	calls := 0
	fetchPage := cache.Cached(content,
		func(slug string) string { return "page:" + slug },
		func(ctx context.Context, slug string) (string, error) {
			calls++
			time.Sleep(100 * time.Millisecond) // pretend CMS latency
			return "<h1>" + slug + "</h1>", nil
		})

	for i := 0; i < 3; i++ {
		start := time.Now()
		html, _ := fetchPage(ctx, "hakkimizda")
		fmt.Printf("fetch %d: %s in %v\n", i+1, html, time.Since(start).Round(time.Millisecond))
	}
	fmt.Println("CMS calls:", calls)

	// ================= FORM VALIDATION =================
	fmt.Println("\n== form validation ==")

	submission := map[string]any{
		"name":    "Ayşe Yılmaz",
		"email":   "ayse@example.com",
		"phone":   "0532 123 45 67",
		"message": "Merhaba, danışmanlık hizmetiniz hakkında bilgi almak istiyorum.",
	}
	report := validate.Form(submission, validate.ContactSchema(), validate.TR)
	fmt.Println("valid submission:", report.Valid)

	bad := map[string]any{"name": "", "email": "not-an-email", "phone": "123", "message": "kısa"}
	for _, loc := range []validate.Locale{validate.TR, validate.EN} {
		report = validate.Form(bad, validate.ContactSchema(), loc)
		fmt.Printf("[%s] %d errors:\n", loc, len(report.Errors))
		for _, e := range report.Errors {
			fmt.Printf("  %-8s %-9s %s\n", e.Field, e.Kind, e.Message)
		}
	}

	// ================= REAL-TIME FEEDBACK =================
	fmt.Println("\n== real-time feedback ==")

	emailRule := validate.Rule{Pattern: &validate.Email}
	for _, input := range []string{"", "ayse@", "ayse@example.com"} {
		res := validate.FieldRealTime("email", input, emailRule, validate.EN)
		fmt.Printf("%-18q -> %s\n", input, res.Validity)
	}
}

func buildStore(cfg config.CacheConfig) (storage.Store, error) {
	switch cfg.Storage {
	case "persistent":
		return storage.NewFileStore(cfg.Dir, cfg.Quota)
	case "session":
		return storage.NewSessionStore(cfg.Quota), nil
	default:
		return storage.NewMemoryStore(), nil
	}
}
