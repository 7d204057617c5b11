// Package github ingests GitHub repository content (files and issues)
// into Annex collections through the GitHub REST API.
package github
