package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/postmedia/internal/flagx"
)

var serverFlags = []string{
	"-a", "-r", "-D", "-d", "-s", "-t", "-u", "-f", "-m", "-p",
	"-B", "-U", "-P", "-b", "-g", "-e", "-i", "-l", "-L",
}

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-r string   gRPC health bind address (e.g., ":50051")
//	-D string   database driver: pgx or sqlite
//	-d string   database DSN
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-u string   upload directory / blob prefix
//	-f string   default asset blob key
//	-m int      max upload size, MiB
//	-p string   fetch policy: public, authenticated, owner
//	-B string   blob backend: fs or s3
//	-U string   S3 root user
//	-P string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-i int      health check interval, seconds
//	-l string   log level
//	-L string   log format: json or text
//
// Only these flags are parsed (see flagx.FilterArgs); -c/-config is handled
// by parseJson.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "r", config.EndpointAddrGRPC, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDriver, "D", config.DatabaseDriver, "database driver (pgx, sqlite)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidity := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access token validity (in minutes)")

	fs.StringVar(&config.UploadDir, "u", config.UploadDir, "upload directory")
	fs.StringVar(&config.DefaultAssetPath, "f", config.DefaultAssetPath, "default asset path")

	maxUploadMiB := fs.Int64("m", config.MaxUploadSize>>20, "max upload size (in MiB)")

	fs.StringVar(&config.FetchPolicy, "p", config.FetchPolicy, "fetch policy (public, authenticated, owner)")
	fs.StringVar(&config.BlobBackend, "B", config.BlobBackend, "blob backend (fs, s3)")
	fs.StringVar(&config.S3RootUser, "U", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "P", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	healthInterval := fs.Int("i", int(config.HealthCheckInterval.Seconds()), "health check interval (in seconds)")

	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "L", config.LogFormat, "log format (json, text)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidity) * time.Minute
	config.MaxUploadSize = *maxUploadMiB << 20
	config.HealthCheckInterval = time.Duration(*healthInterval) * time.Second
}
