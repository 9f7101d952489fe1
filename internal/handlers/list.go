package handlers

import (
	"context"

	"github.com/telequebec-dl/tqc/internal/report"
)

// HandleList prints every season and episode of the show
func HandleList(ctx context.Context, env *Env, slug string) error {
	client := env.catalog()

	show, err := client.FetchShow(ctx, slug)
	if err != nil {
		return err
	}
	return report.NewLister(env.Stdout, client, env.Interactive).List(ctx, show)
}
