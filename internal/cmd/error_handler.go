package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/colombia-api/colombia-cli/internal/api"
	"github.com/colombia-api/colombia-cli/internal/resolve"
)

// HandleError processes an error and returns a user-friendly message with suggestions
func HandleError(err error) string {
	if err == nil {
		return ""
	}

	var msg strings.Builder

	var statusErr *api.RemoteStatusError
	var fault *api.TransportFault
	var notFound *resolve.NotFoundError
	var ambiguous *resolve.AmbiguousError
	var structured *api.StructuredError

	switch {
	case errors.As(err, &notFound):
		fmt.Fprintf(&msg, "No match for %q.\n", notFound.Query)
		if len(notFound.Suggestions) > 0 {
			msg.WriteString("\nDid you mean:\n")
			for _, s := range notFound.Suggestions {
				fmt.Fprintf(&msg, "  - %s (id %d)\n", s.Name, s.ID)
			}
		}

	case errors.As(err, &ambiguous):
		fmt.Fprintf(&msg, "%s\n\n", ambiguous.Error())
		msg.WriteString("Suggestions:\n")
		msg.WriteString("  - Pass the numeric ID instead of the name\n")
		msg.WriteString("  - Use a longer, more specific name\n")

	case errors.As(err, &statusErr):
		fmt.Fprintf(&msg, "API error: %s\n\n", err.Error())
		msg.WriteString(suggestionsForStatusCode(statusErr.StatusCode))

	case errors.As(err, &fault):
		fmt.Fprintf(&msg, "Request failed: %s\n\n", err.Error())
		msg.WriteString(suggestionsForFault(fault.Description))

	case errors.As(err, &structured):
		fmt.Fprintf(&msg, "Error: %s\n", structured.Message)
		if structured.Suggestion != "" {
			fmt.Fprintf(&msg, "\nSuggestion: %s\n", structured.Suggestion)
		}

	default:
		fmt.Fprintf(&msg, "Error: %s\n", err.Error())
	}

	return msg.String()
}

func suggestionsForStatusCode(code int) string {
	var suggestions strings.Builder
	suggestions.WriteString("Suggestions:\n")

	switch {
	case code == 400:
		suggestions.WriteString("  - Check the ID or search term\n")
		suggestions.WriteString("  - Use --debug to see the full request\n")

	case code == 401 || code == 403:
		suggestions.WriteString("  - The service refused the request\n")
		suggestions.WriteString("  - Check --base-url points at API Colombia\n")

	case code == 404:
		suggestions.WriteString("  - The resource doesn't exist\n")
		suggestions.WriteString("  - Check the ID is correct, or list the resource to find it\n")

	case code == 429:
		suggestions.WriteString("  - Too many requests\n")
		suggestions.WriteString("  - Lower --rps or retry with --max-retries\n")

	case code >= 500:
		suggestions.WriteString("  - Server error - not your fault\n")
		suggestions.WriteString("  - Wait and retry, or pass --max-retries\n")

	case code >= 300 && code < 400:
		suggestions.WriteString("  - The service answered with a redirect\n")
		suggestions.WriteString("  - Check --base-url includes the /api/v1 prefix\n")

	default:
		suggestions.WriteString("  - Use --debug for more details\n")
	}

	return suggestions.String()
}

func suggestionsForFault(description string) string {
	var suggestions strings.Builder
	suggestions.WriteString("Suggestions:\n")

	lower := strings.ToLower(description)
	switch {
	case strings.Contains(lower, "connection refused"):
		suggestions.WriteString("  - Check if the server is running\n")
		suggestions.WriteString("  - Verify the URL: colombia config show --effective\n")

	case strings.Contains(lower, "no such host"):
		suggestions.WriteString("  - Check the base URL spelling\n")
		suggestions.WriteString("  - Verify your DNS settings\n")

	case strings.Contains(lower, "certificate") || strings.Contains(lower, "tls"):
		suggestions.WriteString("  - Verify the server's TLS certificate\n")
		suggestions.WriteString("  - As a last resort for test servers, pass --insecure\n")

	case strings.Contains(lower, "deadline") || strings.Contains(lower, "timeout"):
		suggestions.WriteString("  - Raise --timeout (e.g., --timeout 60s)\n")
		suggestions.WriteString("  - Check your network connection\n")

	case strings.Contains(lower, "rate limiter"):
		suggestions.WriteString("  - Raise --rps or the command timeout\n")

	case strings.Contains(lower, "invalid character") || strings.Contains(lower, "unexpected end"):
		suggestions.WriteString("  - The server answered with something other than JSON\n")
		suggestions.WriteString("  - Check --base-url points at API Colombia\n")

	default:
		suggestions.WriteString("  - Check your network connection\n")
		suggestions.WriteString("  - Use --debug for more details\n")
	}

	return suggestions.String()
}
