package auth

import (
	"fmt"
	"io"
	"strings"
)

// ShowFilterSetupGuide explains what the operator has to do in the opened browser
func ShowFilterSetupGuide(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "SEARCH FILTER SETUP")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "1. Log in to your account in the browser window")
	fmt.Fprintln(w, "2. Set the search filters you want to crawl")
	fmt.Fprintln(w, "3. Come back here and press ENTER")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Do not close the browser yourself, it is closed once")
	fmt.Fprintln(w, "the session cookies have been read.")
	fmt.Fprintln(w, strings.Repeat("=", 60))
}
