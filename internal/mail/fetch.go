// Package mail downloads spreadsheet attachments from an IMAP mailbox.
// Processed message UIDs are recorded in a plain-text log next to the
// download folder so re-runs only fetch new mail.
package mail

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	gomail "github.com/emersion/go-message/mail"
	"go.uber.org/zap"

	"github.com/ozcodx/mailprocessor/internal/config"
)

// logFile records the UIDs of messages whose attachments were saved.
const logFile = "downloaded_emails.txt"

// Fetcher downloads attachments from the configured mailbox.
type Fetcher struct {
	cfg config.MailConfig
	log *zap.Logger
}

// NewFetcher creates a Fetcher.
func NewFetcher(cfg config.MailConfig, log *zap.Logger) *Fetcher {
	return &Fetcher{cfg: cfg, log: log}
}

// Download connects to the mailbox, fetches messages matching the
// configured search, and saves their attachments into the download
// folder. Returns the saved filenames. Messages already recorded in
// the UID log are skipped.
func (f *Fetcher) Download() ([]string, error) {
	seen, err := f.readSeenUIDs()
	if err != nil {
		return nil, err
	}

	c, err := client.DialTLS(f.cfg.Server, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", f.cfg.Server, err)
	}
	defer c.Logout()

	if err := c.Login(f.cfg.Username, f.cfg.Password); err != nil {
		return nil, fmt.Errorf("imap login: %w", err)
	}

	if _, err := c.Select("INBOX", true); err != nil {
		return nil, fmt.Errorf("selecting inbox: %w", err)
	}

	criteria := imap.NewSearchCriteria()
	if f.cfg.SearchSubject != "" {
		criteria.Header.Add("Subject", f.cfg.SearchSubject)
	}
	if f.cfg.SearchFrom != "" {
		criteria.Header.Add("From", f.cfg.SearchFrom)
	}

	uids, err := c.UidSearch(criteria)
	if err != nil {
		return nil, fmt.Errorf("imap search: %w", err)
	}

	var pending []uint32
	for _, uid := range uids {
		if seen[uid] {
			f.log.Debug("message already downloaded", zap.Uint32("uid", uid))
			continue
		}
		pending = append(pending, uid)
	}
	if len(pending) == 0 {
		return nil, nil
	}

	if err := os.MkdirAll(f.cfg.DownloadFolder, 0o755); err != nil {
		return nil, fmt.Errorf("creating download folder: %w", err)
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(pending...)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{section.FetchItem(), imap.FetchUid}

	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- c.UidFetch(seqset, items, messages)
	}()

	var saved []string
	var fetched []uint32
	for msg := range messages {
		names, err := f.saveAttachments(msg, section)
		if err != nil {
			// One broken message never aborts the batch.
			f.log.Warn("skipping message", zap.Uint32("uid", msg.Uid), zap.Error(err))
			continue
		}
		saved = append(saved, names...)
		fetched = append(fetched, msg.Uid)
	}
	if err := <-done; err != nil {
		return saved, fmt.Errorf("imap fetch: %w", err)
	}

	if err := f.appendSeenUIDs(fetched); err != nil {
		return saved, err
	}
	return saved, nil
}

// ClearLog removes the UID log so the next Download refetches
// everything. Used by debug mode.
func (f *Fetcher) ClearLog() error {
	err := os.Remove(f.logPath())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clearing download log: %w", err)
	}
	return nil
}

func (f *Fetcher) saveAttachments(msg *imap.Message, section *imap.BodySectionName) ([]string, error) {
	body := msg.GetBody(section)
	if body == nil {
		return nil, fmt.Errorf("message has no body")
	}

	mr, err := gomail.CreateReader(body)
	if err != nil {
		return nil, fmt.Errorf("reading message: %w", err)
	}

	var saved []string
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return saved, fmt.Errorf("reading part: %w", err)
		}

		header, ok := part.Header.(*gomail.AttachmentHeader)
		if !ok {
			continue
		}
		filename, err := header.Filename()
		if err != nil || filename == "" {
			continue
		}

		filename = CleanFilename(filename)
		path := filepath.Join(f.cfg.DownloadFolder, filename)
		out, err := os.Create(path)
		if err != nil {
			return saved, fmt.Errorf("creating %s: %w", filename, err)
		}
		if _, err := io.Copy(out, part.Body); err != nil {
			out.Close()
			return saved, fmt.Errorf("saving %s: %w", filename, err)
		}
		if err := out.Close(); err != nil {
			return saved, fmt.Errorf("closing %s: %w", filename, err)
		}

		f.log.Info("attachment saved", zap.String("file", filename), zap.Uint32("uid", msg.Uid))
		saved = append(saved, filename)
	}
	return saved, nil
}

func (f *Fetcher) logPath() string {
	return filepath.Join(filepath.Dir(f.cfg.DownloadFolder), logFile)
}

func (f *Fetcher) readSeenUIDs() (map[uint32]bool, error) {
	seen := make(map[uint32]bool)

	file, err := os.Open(f.logPath())
	if os.IsNotExist(err) {
		return seen, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening download log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		uid, err := strconv.ParseUint(line, 10, 32)
		if err != nil {
			continue
		}
		seen[uint32(uid)] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading download log: %w", err)
	}
	return seen, nil
}

func (f *Fetcher) appendSeenUIDs(uids []uint32) error {
	if len(uids) == 0 {
		return nil
	}
	file, err := os.OpenFile(f.logPath(), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening download log: %w", err)
	}
	defer file.Close()

	for _, uid := range uids {
		if _, err := fmt.Fprintln(file, uid); err != nil {
			return fmt.Errorf("writing download log: %w", err)
		}
	}
	return nil
}

// CleanFilename keeps alphanumerics, dots, underscores and dashes,
// replacing anything else, so a mail-supplied name is always safe to
// join onto the download folder.
func CleanFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '_' || r == '-':
			return r
		default:
			return '_'
		}
	}, filepath.Base(name))
}
