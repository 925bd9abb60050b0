package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/dmitrijs2005/recipeshare/internal/flagx"
)

var serverFlags = []string{
	"-a", "-d", "-m", "-s", "-t", "-r", "-u", "-p", "-b", "-g", "-e", "-P", "-i", "-U", "-x", "-o", "-l", "-D",
}

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":5000")
//	-d string   PostgreSQL DSN
//	-m string   storage backend: postgres | memory
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-r int      refresh token validity, minutes
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-P string   public base URL of stored images
//	-i string   image backend: s3 | disk
//	-U string   uploads directory of the disk backend
//	-x string   TheMealDB API base URL
//	-o string   comma-separated CORS origins
//	-l string   log format: json | text | zerolog | console
//	-D          debug logging
//
// Duration flags are accepted as integers in minutes.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.StorageBackend, "m", config.StorageBackend, "storage backend (postgres|memory)")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	refreshTokenValidityDuration := fs.Int("r", int(config.RefreshTokenValidityDuration.Minutes()), "refresh_token_validity_duration (in minutes)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3PublicURL, "P", config.S3PublicURL, "public base URL of stored images")
	fs.StringVar(&config.ImageBackend, "i", config.ImageBackend, "image backend (s3|disk)")
	fs.StringVar(&config.UploadsDir, "U", config.UploadsDir, "uploads directory")
	fs.StringVar(&config.ExternalAPIBaseURL, "x", config.ExternalAPIBaseURL, "external recipe API base URL")

	origins := fs.String("o", strings.Join(config.CORSOrigins, ","), "comma-separated CORS origins")

	fs.StringVar(&config.LogFormat, "l", config.LogFormat, "log format (json|text|zerolog|console)")
	fs.BoolVar(&config.Debug, "D", config.Debug, "debug logging")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.RefreshTokenValidityDuration = time.Duration(*refreshTokenValidityDuration) * time.Minute
	config.CORSOrigins = flagx.SplitList(*origins)
}
