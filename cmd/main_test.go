package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/draftboard/internal/cli"
)

func TestMainCommandLine(t *testing.T) {
	convey.Convey("Given the draftboard command line", t, func() {
		var stderr bytes.Buffer

		convey.Convey("When asking for help", func() {
			code := cli.Main(context.Background(), []string{"--help"}, &stderr)

			convey.Convey("Then it should exit cleanly", func() {
				convey.So(code, convey.ShouldEqual, 0)
			})
		})

		convey.Convey("When running an unknown command", func() {
			code := cli.Main(context.Background(), []string{"draft"}, &stderr)

			convey.Convey("Then it should exit with status 1", func() {
				convey.So(code, convey.ShouldEqual, 1)
			})
		})
	})
}
