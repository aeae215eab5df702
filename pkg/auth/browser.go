package auth

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"golang.org/x/term"
	"mambascraper/pkg/config"
	"mambascraper/pkg/errors"
	"mambascraper/pkg/logger"
)

// BrowserLogin opens a visible browser on the search page and waits for the
// operator to log in and set filters, then reads the session cookies
type BrowserLogin struct {
	searchURL  string
	bin        string
	navTimeout time.Duration

	in         io.Reader
	out        io.Writer
	isTerminal func() bool
	logger     logger.Logger
}

// NewBrowserLogin creates a login provider reading ENTER from stdin
func NewBrowserLogin(api config.APIConfig, login config.LoginConfig, log logger.Logger) *BrowserLogin {
	if log == nil {
		log = logger.GetLogger()
	}
	navTimeout := login.NavTimeout
	if navTimeout <= 0 {
		navTimeout = time.Minute
	}
	return &BrowserLogin{
		searchURL:  api.SearchURL,
		bin:        login.BrowserBin,
		navTimeout: navTimeout,
		in:         os.Stdin,
		out:        os.Stdout,
		isTerminal: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
		logger:     log,
	}
}

// Acquire runs the interactive login
func (b *BrowserLogin) Acquire(ctx context.Context) (Cookies, error) {
	if !b.isTerminal() {
		return nil, errors.New(errors.ErrorTypeAuth, "interactive login requires a terminal on stdin", nil)
	}

	l := launcher.New().
		Headless(false).
		Set("disable-blink-features", "AutomationControlled")
	if b.bin != "" {
		l = l.Bin(b.bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, errors.New(errors.ErrorTypeAuth, "failed to launch browser", err)
	}
	defer l.Kill()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, errors.New(errors.ErrorTypeAuth, "failed to connect to browser", err)
	}
	defer browser.Close()

	b.logger.InfoWithFields("Browser launched", map[string]interface{}{
		"url": b.searchURL,
	})

	page, err := stealth.Page(browser)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeAuth, "failed to open browser tab", err)
	}

	if err := b.navigate(ctx, page); err != nil {
		return nil, err
	}

	ShowFilterSetupGuide(b.out)
	if err := b.waitForEnter(ctx); err != nil {
		return nil, errors.New(errors.ErrorTypeAuth, "login aborted", err)
	}

	networkCookies, err := page.Context(ctx).Cookies(nil)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeAuth, "failed to read browser cookies", err)
	}

	cookies := fromNetworkCookies(networkCookies)
	if len(cookies) == 0 {
		return nil, errors.New(errors.ErrorTypeAuth, "browser session has no cookies", nil)
	}
	return cookies, nil
}

func (b *BrowserLogin) navigate(ctx context.Context, page *rod.Page) error {
	navCtx, cancel := context.WithTimeout(ctx, b.navTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(b.searchURL); err != nil {
		return errors.New(errors.ErrorTypeAuth, fmt.Sprintf("failed to open %s", b.searchURL), err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		b.logger.WithError(err).WarnWithFields("Page load wait timed out", map[string]interface{}{
			"url": b.searchURL,
		})
	}
	return nil
}

func (b *BrowserLogin) waitForEnter(ctx context.Context) error {
	fmt.Fprint(b.out, "Press ENTER when ready: ")

	done := make(chan error, 1)
	go func() {
		_, err := bufio.NewReader(b.in).ReadString('\n')
		done <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

func fromNetworkCookies(in []*proto.NetworkCookie) Cookies {
	out := make(Cookies, 0, len(in))
	for _, c := range in {
		out = append(out, Cookie{Name: c.Name, Value: c.Value})
	}
	return out
}
