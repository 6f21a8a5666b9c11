// Package cocorahs relays precipitation reports to cocorahs.org by driving
// its ASP.NET login and daily report forms over plain HTTP.
package cocorahs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/lyndonwx/dashboard-service/internal/domain"
)

const (
	defaultBaseURL = "https://www.cocorahs.org"
	loginPath      = "/Login.aspx"
	reportPath     = "/Admin/MyDataEntry/DailyPrecipReport.aspx"
)

// Form field names on the daily precipitation report. The station is locked
// to the login, so no station field is posted.
const (
	fieldObsDate    = "frmReport$dcObsDate$di"
	fieldObsTime    = "frmReport$tObsTime$txtTime"
	fieldGaugeCatch = "frmReport$prTotalPrecip$_ctl1$tbPrecip"
	fieldNewSnow    = "frmReport$prNewSnowAmount$_ctl1$tbPrecip"
	fieldSnowCore   = "frmReport$prSnowCore$_ctl1$tbPrecip"
	fieldSnowDepth  = "frmReport$prTotalSnowDepth$_ctl1$tbPrecip"
	fieldSnowSWE    = "frmReport$prSWE$_ctl1$tbPrecip"
	fieldNotes      = "frmReport$txtNotes"
)

// hiddenFieldRe captures the ASP.NET postback state fields (__VIEWSTATE and
// friends) that must be echoed back on every form POST.
var hiddenFieldRe = regexp.MustCompile(`<input[^>]+name="(__[A-Z]+)"[^>]+value="([^"]*)"`)

// Client implements domain.ReportSubmitter against cocorahs.org.
type Client struct {
	username   string
	password   string
	station    string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a CoCoRaHS relay client for one station login.
func NewClient(username, password, station string, timeout time.Duration, logger *slog.Logger) *Client {
	jar, _ := cookiejar.New(nil) // only fails on a nil PublicSuffixList option
	return &Client{
		username: username,
		password: password,
		station:  station,
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		baseURL: defaultBaseURL,
		logger:  logger,
	}
}

// Submit logs in with the observer credentials and posts the daily
// precipitation report form. It returns domain.ErrRelayLogin when the
// credentials are refused and domain.ErrRelayRejected when the form reports
// validation errors.
func (c *Client) Submit(ctx context.Context, report domain.PrecipReport) error {
	if err := c.login(ctx); err != nil {
		return err
	}
	return c.postReport(ctx, report)
}

func (c *Client) login(ctx context.Context) error {
	hidden, err := c.fetchForm(ctx, c.baseURL+loginPath)
	if err != nil {
		return fmt.Errorf("fetch login form: %w", err)
	}

	form := url.Values{}
	for k, v := range hidden {
		form.Set(k, v)
	}
	form.Set("UserName", c.username)
	form.Set("Password", c.password)
	form.Set("btnLogin", "Login")

	body, finalURL, err := c.postForm(ctx, c.baseURL+loginPath, form)
	if err != nil {
		return fmt.Errorf("post login form: %w", err)
	}

	// A successful login redirects away from the login page.
	if strings.Contains(strings.ToLower(finalURL), "login") {
		c.logger.Warn("login form did not redirect", "station", c.station)
		return domain.ErrRelayLogin
	}
	if strings.Contains(body, "errormessage") {
		return domain.ErrRelayLogin
	}

	c.logger.Debug("logged in to cocorahs", "station", c.station)
	return nil
}

func (c *Client) postReport(ctx context.Context, report domain.PrecipReport) error {
	hidden, err := c.fetchForm(ctx, c.baseURL+reportPath)
	if err != nil {
		return fmt.Errorf("fetch report form: %w", err)
	}

	obsDate := report.ReportDate
	form := url.Values{}
	for k, v := range hidden {
		form.Set(k, v)
	}
	form.Set(fieldObsDate, obsDate.Format("01/02/2006"))
	form.Set(fieldObsTime, obsDate.Format("15:04"))
	setIfPresent(form, fieldGaugeCatch, report.GaugeCatch)
	setIfPresent(form, fieldNewSnow, report.SnowfallAmount)
	setIfPresent(form, fieldSnowCore, report.SnowfallSWE)
	setIfPresent(form, fieldSnowDepth, report.SnowpackDepth)
	setIfPresent(form, fieldSnowSWE, report.SnowpackSWE)
	setIfPresent(form, fieldNotes, report.AdditionalNotes)

	body, finalURL, err := c.postForm(ctx, c.baseURL+reportPath, form)
	if err != nil {
		return fmt.Errorf("post report form: %w", err)
	}

	if strings.Contains(body, "errormessage") {
		return fmt.Errorf("%w: form reported validation errors", domain.ErrRelayRejected)
	}
	// Success shows a confirmation message or redirects off the entry form.
	if strings.Contains(body, "successmessage") || !strings.Contains(finalURL, "DailyPrecipReport") {
		c.logger.Info("report relayed", "station", c.station, "report_id", report.ID)
		return nil
	}

	return fmt.Errorf("%w: no confirmation in response", domain.ErrRelayRejected)
}

// fetchForm GETs a form page and returns its hidden postback state fields.
func (c *Client) fetchForm(ctx context.Context, pageURL string) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	hidden := make(map[string]string)
	for _, m := range hiddenFieldRe.FindAllStringSubmatch(string(body), -1) {
		hidden[m[1]] = m[2]
	}
	return hidden, nil
}

// postForm POSTs form values and returns the final body and URL after redirects.
func (c *Client) postForm(ctx context.Context, pageURL string, form url.Values) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pageURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", err
	}
	return string(body), resp.Request.URL.String(), nil
}

func setIfPresent(form url.Values, key, value string) {
	if v := strings.TrimSpace(value); v != "" {
		form.Set(key, v)
	}
}
