// Package livetl provides the core of a live translation widget.
//
// The central type is Controller: it holds the text the user is typing and
// the selected target language, coalesces rapid edits into a single request
// per quiet period, and makes sure a slow response for old input never
// overwrites the result for newer input.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/livetl"
//	    "github.com/ZaguanLabs/livetl/provider"
//	)
//
//	func main() {
//	    p := provider.NewHTTPProvider(provider.HTTPConfig{
//	        BaseURL: "http://localhost:8080",
//	    })
//
//	    c := livetl.NewController(p,
//	        livetl.WithTargetLanguage("french"),
//	    )
//	    defer c.Close()
//
//	    c.Subscribe(func(s livetl.State) {
//	        fmt.Println(s.Result.Text)
//	    })
//	    c.SetInputText("hello") // prints "bonjour" after the quiet period
//	}
package livetl
