package goslingshot_test

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goslingshot "github.com/gosling-lang/go-goslingshot"
)

// Example demonstrates building the document for a spec.
// For image output, set HTMLOnly to false (requires Chrome).
func Example() {
	r, err := goslingshot.NewRenderer()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer r.Close()

	result, err := r.Render(context.Background(), goslingshot.Input{
		Spec:     `{"title":"Example","tracks":[]}`,
		HTMLOnly: true, // Skip the browser for this example
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	if strings.Contains(string(result.HTML), "gosling.embed") {
		fmt.Println("HTML generated successfully")
	}
	// Output: HTML generated successfully
}

// Example_invalidSpec shows that malformed JSON fails before a browser starts.
func Example_invalidSpec() {
	r, err := goslingshot.NewRenderer()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer r.Close()

	_, err = r.Render(context.Background(), goslingshot.Input{Spec: `{"tracks": [`})
	fmt.Println(errors.Is(err, goslingshot.ErrInvalidSpec))
	// Output: true
}

// ExampleEscapeSpec shows how backslashes survive embedding.
func ExampleEscapeSpec() {
	fmt.Println(goslingshot.EscapeSpec(`{"separator":"\t"}`))
	// Output: {"separator":"\\t"}
}

// ExampleParseFormat shows the jpg alias.
func ExampleParseFormat() {
	f, _ := goslingshot.ParseFormat("jpg")
	fmt.Println(f, f.Extension())
	// Output: jpeg .jpeg
}
