package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"quiz-maker/internal/makerclient"
)

func main() {
	server := flag.String("server", "http://127.0.0.1:8080", "quiz service base URL")
	timeout := flag.Duration("timeout", 5*time.Second, "HTTP timeout")
	limit := flag.Int("limit", 10, "default number of quizzes to list")
	flag.Parse()

	err := makerclient.Run(context.Background(), os.Stdin, os.Stdout, makerclient.Config{
		ServerURL:   *server,
		ListLimit:   *limit,
		HTTPTimeout: *timeout,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
