// Package s3 implements the job file inbox on Amazon S3 and
// S3-compatible services (MinIO, DigitalOcean Spaces, Wasabi).
//
// Files uploaded alongside a queue item are stored under
// inbox/<job_id>/<filename>; the queue item carries only the object
// keys. Processors fetch the objects on demand and the inbox is purged
// per job once the work is done.
//
// Basic usage:
//
//	var cfg s3.Config
//	config.MustLoad(&cfg)
//
//	inbox, err := s3.New(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	key, err := inbox.Upload(ctx, jobID, "report.pdf", file, "application/pdf")
//
// The Client interface abstracts the AWS SDK calls so tests can inject
// mocks via WithClient.
package s3
