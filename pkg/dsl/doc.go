/*
Package dsl provides a Go DSL for programmatically constructing workflow documents.

It lets callers describe a workflow with a fluent builder instead of replaying editor
gestures or writing JSON by hand. This is useful for seeding stores, unit testing and
generating sample workflows.

Example usage:

	b := dsl.New("Lead intake")

	b.Add("hook", domain.NodeTypeTrigger).Label("New lead").At(100, 200).
		Then("enrich", domain.NodeTypeHTTP).At(350, 200).Config("url", "https://crm.example.com").
		Then("notify", domain.NodeTypeEmail).At(600, 200)

	doc, err := b.Build()

	// The document can be opened in an editor or saved directly to a store.
	editor, err := flowcanvas.Open(doc)
*/
package dsl
