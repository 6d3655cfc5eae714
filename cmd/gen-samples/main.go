package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aretw0/flowcanvas"
	"github.com/aretw0/flowcanvas/pkg/adapters/loam"
	"github.com/aretw0/flowcanvas/pkg/domain"
	"github.com/aretw0/flowcanvas/pkg/dsl"
)

func leadIntake() *dsl.Builder {
	b := dsl.New("Lead intake")
	b.Add("hook", domain.NodeTypeTrigger).Label("New lead").At(100, 200).
		Then("enrich", domain.NodeTypeHTTP).At(350, 200).Config("url", "https://crm.example.com/leads").
		Then("qualify", domain.NodeTypeCondition).Label("Score > 50").At(600, 200).
		To("welcome", "nurture")
	b.Add("welcome", domain.NodeTypeEmail).Label("Welcome email").At(850, 100)
	b.Add("nurture", domain.NodeTypeDelay).Label("Wait 3 days").At(850, 300).Config("duration", "72h")
	return b
}

func supportTriage() *dsl.Builder {
	b := dsl.New("Support triage").Agent("support-bot")
	b.Add("ticket", domain.NodeTypeTrigger).Label("Ticket opened").At(100, 200).
		Then("classify", domain.NodeTypeAgent).At(350, 200).Config("prompt", "Classify the ticket").
		Then("wait", domain.NodeTypeDelay).At(600, 200).
		Then("reply", domain.NodeTypeEmail).At(850, 200)
	return b
}

func nightlyReport() *dsl.Builder {
	b := dsl.New("Nightly report")
	b.Add("cron", domain.NodeTypeTrigger).Label("Every night").At(100, 200).Config("schedule", "0 2 * * *").
		Then("aggregate", domain.NodeTypeCode).At(350, 200).
		Then("send", domain.NodeTypeEmail).At(600, 200)
	return b
}

var samples = map[string]func() *dsl.Builder{
	"workflow:sample-lead-intake":    leadIntake,
	"workflow:sample-support-triage": supportTriage,
	"workflow:sample-nightly-report": nightlyReport,
}

func main() {
	targetDir := "examples/sample-workflows"
	if len(os.Args) > 1 {
		targetDir = os.Args[1]
	}

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		panic(err)
	}

	fmt.Printf("Generating sample workflows in: %s\n", targetDir)

	store, err := loam.Open(targetDir)
	check(err)
	ctx := context.TODO()

	for key, sample := range samples {
		doc, err := sample().Build()
		check(err)

		editor, err := flowcanvas.Open(doc,
			flowcanvas.WithStore(store),
			flowcanvas.WithKeyFunc(func(time.Time) string { return key }),
		)
		check(err)

		saved, err := editor.Save(ctx)
		check(err)
		fmt.Printf("  %s (%d nodes)\n", saved, len(doc.Nodes))
	}

	fmt.Println("Done.")
}

func check(err error) {
	if err != nil {
		panic(err)
	}
}
