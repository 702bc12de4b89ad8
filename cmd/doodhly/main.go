package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/doodhly/doodhly/internal/observability"
	"github.com/doodhly/doodhly/internal/server"
	"github.com/doodhly/doodhly/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		server.Module,
	)

	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
