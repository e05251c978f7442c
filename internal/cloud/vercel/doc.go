// Package vercel is a minimal client for the Vercel environment variable
// API, covering just what push-cloud needs: list the variables a project
// has and upsert new values. Requests retry transient failures.
package vercel
