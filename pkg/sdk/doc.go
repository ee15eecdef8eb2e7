// Package ragcore provides an embedded Go client for the ragcore
// retrieval engine backed by Redis with search modules.
//
// The client manages tenant-scoped knowledge base documents and runs
// keyword retrieval with weighted relevance scoring directly against
// the store, without an HTTP server in between.
//
//	client, _ := ragcore.New(ctx, ragcore.WithRedis("localhost:6379", ""))
//	defer client.Close()
//
//	docs := client.Documents("acme")
//	_, _ = docs.Create(ctx, ragcore.Document{
//	    Title:   "Password Reset Guide",
//	    Content: "Step by step password reset instructions.",
//	    Tags:    []string{"it", "faq"},
//	})
//
//	insp, _ := client.Retrieval("acme").Inspect(ctx, "how do I reset my password", 5)
//	fmt.Println(insp.Context)
//
// Chat grounding requires a completion provider, wired in with
// WithCompleter.
package ragcore
