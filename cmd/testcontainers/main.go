package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/localnerve/resonance/internal/testutil"
)

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	var dbType string
	flag.StringVar(&dbType, "db", "postgres", "database type: postgres or mariadb")
	flag.Parse()

	usage := `
Run a resonance database (and redis when TEST_REDIS_IMAGE is set) in
testcontainers and print the settings to reach them.

Usage:

testcontainers [-h] [-f ENV_FILE_PATH] [-db postgres|mariadb]

ENV_FILE_PATH: path to the .env file providing TEST_POSTGRES_IMAGE,
TEST_MARIADB_IMAGE and TEST_REDIS_IMAGE

example
  testcontainers -f /path/to/something/.env -db mariadb
`
	// if -h flag print usage and return
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	} else {
		log.Printf("No environment file specified, using current environment variables\n")
	}

	imageVar := testutil.EnvPostgresImage
	if dbType != "postgres" {
		imageVar = testutil.EnvMariaDBImage
	}
	dbImage := os.Getenv(imageVar)
	if dbImage == "" {
		log.Fatalf("%s is not set\n", imageVar)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	reportImage(ctx, dbImage)
	dc, err := testutil.StartDatabase(ctx, nil, dbType, dbImage)
	if err != nil {
		log.Fatalf("Failed to start database container: %v\n", err)
	}
	defer dc.Terminate(nil)

	fmt.Printf("DB_TYPE=%s\nDB_HOST=%s\nDB_PORT=%s\nDB_DATABASE=%s\nDB_USER=%s\nDB_PASSWORD=%s\n",
		dc.Config.DBType, dc.Config.DBHost, dc.Config.DBPort, dc.Config.DBDatabase, dc.Config.DBUser, dc.Config.DBPassword)

	if redisImage := os.Getenv(testutil.EnvRedisImage); redisImage != "" {
		reportImage(ctx, redisImage)
		rc, err := testutil.StartRedis(ctx, nil, redisImage)
		if err != nil {
			log.Printf("Failed to start redis container: %v\n", err)
		} else {
			defer rc.Terminate(nil)
		}
	}

	<-ctx.Done()
	log.Printf("\nReceived signal, terminating test containers...\n")
}

func reportImage(ctx context.Context, img string) {
	exists, err := testutil.ImageExists(ctx, img)
	switch {
	case err != nil:
		log.Printf("Could not inspect local images: %v\n", err)
	case !exists:
		log.Printf("Pulling %s, the first start takes longer\n", img)
	}
}
