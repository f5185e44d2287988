/*
Command depfetch downloads the third-party bundles a build needs and saves each
one at its expected path.

Tasks run one after another in list order. Each response body is written byte
for byte; a destination is either replaced by the complete new body or left as
it was. Parent directories must already exist.

Usage

	depfetch

No arguments or flags are read. With no configuration the built-in bundle list
is fetched into the working directory and the run stops at the first failure.

Configuration

Settings come from the environment, layered over .env, .env.<ENVIRONMENT> and
.env.local in the working directory:

	FETCH_MANIFEST           YAML task list replacing the built-in one
	FETCH_BASE_DIR           directory relative destinations resolve against
	FETCH_TASK_TIMEOUT       per-task deadline, 0 disables it
	FETCH_CONTINUE_ON_ERROR  attempt every task and report all failures
	HTTP_TIMEOUT             overall HTTP request timeout
	STORAGE_PROVIDER         "fs" (default) or "s3"
	S3_BUCKET, AWS_REGION    bucket settings when STORAGE_PROVIDER=s3
	METRICS_TEXTFILE         write Prometheus metrics here after the run
	LOG_LEVEL                debug, info, warn or error

A manifest looks like:

	tasks:
	  - url: https://curl.haxx.se/ca/cacert.pem
	    destination: src/trusted_roots.pem

Exit status

	0  every task succeeded (or there were none)
	1  at least one task failed
	2  configuration, manifest or storage setup failed

Logs are JSON lines on stderr.
*/
package main
