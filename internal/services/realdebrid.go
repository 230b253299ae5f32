package services

import (
	stderrors "errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/gostremiobr/gostremiobr/internal/constants"
	"github.com/gostremiobr/gostremiobr/internal/errors"
	"github.com/gostremiobr/gostremiobr/internal/magnet"
	"github.com/gostremiobr/gostremiobr/internal/models"
	"github.com/gostremiobr/gostremiobr/pkg/logger"
	"github.com/gostremiobr/gostremiobr/pkg/ratelimiter"
	"github.com/gostremiobr/gostremiobr/pkg/realdebrid"
)

// DebridService resolves magnets into direct stream links through a debrid
// account.
type DebridService interface {
	AddMagnet(apiKey, magnetURI string) (string, error)
	GetTorrentInfo(apiKey, torrentID string) (*models.ResolvedTorrent, error)
	SelectFiles(apiKey, torrentID string, fileIDs string) error
	UnrestrictLink(apiKey, link string) (string, error)
	FindExistingTorrent(apiKey, infoHash string) (*models.ResolvedTorrent, error)
	GetStreamLinkForFile(apiKey, torrentID string, fileID int) (string, error)
	ProcessTorrent(apiKey, magnetURI string) (*models.ProcessedTorrent, error)
}

// RealDebrid implements DebridService on the Real-Debrid API with a
// bounded-retry policy and a shared rate limiter, because the debrid
// account is one rate-limited external resource for all in-flight requests.
type RealDebrid struct {
	client      *realdebrid.Client
	rateLimiter *ratelimiter.TokenBucket
	logger      logger.Logger
	retryDelay  time.Duration
}

func NewRealDebrid(client *realdebrid.Client, log logger.Logger) *RealDebrid {
	return &RealDebrid{
		client:      client,
		rateLimiter: ratelimiter.NewTokenBucket(constants.RealDebridRateLimit, constants.RealDebridRateBurst),
		logger:      log,
		retryDelay:  constants.DebridRetryBaseDelay,
	}
}

// withRetry runs one outbound call under the retry policy: up to
// DebridMaxAttempts attempts, exponential backoff from DebridRetryBaseDelay,
// retrying only transient and rate-limited classes.
func (r *RealDebrid) withRetry(op string, call func() error) error {
	err := retry.Do(
		func() error {
			r.rateLimiter.Wait()
			return classifyError(op, call())
		},
		retry.Attempts(constants.DebridMaxAttempts),
		retry.Delay(r.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(errors.IsRetryable),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			// n is the zero-based index of the attempt that just failed.
			r.logger.Warnf("[RealDebrid] %s attempt %d failed: %v", op, n+1, err)
		}),
	)
	return err
}

// classifyError maps transport and API failures onto the error taxonomy.
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}

	var apiErr *realdebrid.APIError
	if stderrors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 401 || apiErr.StatusCode == 403:
			return errors.NewAuthError(fmt.Sprintf("%s: %s", op, apiErr.Message))
		case apiErr.StatusCode == 429:
			return errors.NewRateLimitedError(fmt.Sprintf("%s rate limited", op))
		case apiErr.StatusCode == 500 || apiErr.StatusCode == 502 ||
			apiErr.StatusCode == 503 || apiErr.StatusCode == 504:
			return errors.NewTransientError(op+" failed upstream", apiErr)
		default:
			return errors.NewStreamError(errors.ErrorTypeParse, op+" rejected", apiErr)
		}
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return errors.NewTransientError(op+" network failure", err)
	}
	// url.Error wrapping DNS failures and refused connections.
	if strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "no such host") {
		return errors.NewTransientError(op+" connection failure", err)
	}
	return errors.NewTransientError(op+" failed", err)
}

func (r *RealDebrid) AddMagnet(apiKey, magnetURI string) (string, error) {
	if !magnet.Valid(magnetURI) {
		return "", errors.NewValidationError("malformed magnet URI")
	}

	var id string
	err := r.withRetry("addMagnet", func() error {
		resp, err := r.client.AddMagnet(apiKey, magnetURI)
		if err != nil {
			return err
		}
		id = resp.ID
		return nil
	})
	if err != nil {
		return "", err
	}

	r.logger.Debugf("[RealDebrid] magnet added as torrent %s", id)
	return id, nil
}

func (r *RealDebrid) GetTorrentInfo(apiKey, torrentID string) (*models.ResolvedTorrent, error) {
	if torrentID == "" {
		return nil, errors.NewValidationError("empty torrent id")
	}

	var info *realdebrid.TorrentInfoResponse
	err := r.withRetry("torrentInfo", func() error {
		resp, err := r.client.TorrentInfo(apiKey, torrentID)
		if err != nil {
			return err
		}
		info = resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toResolvedTorrent(info), nil
}

func toResolvedTorrent(info *realdebrid.TorrentInfoResponse) *models.ResolvedTorrent {
	resolved := &models.ResolvedTorrent{
		ID:       info.ID,
		InfoHash: strings.ToLower(info.Hash),
		Status:   models.ParseTorrentStatus(info.Status),
		Progress: info.Progress,
		Links:    info.Links,
	}
	for _, f := range info.Files {
		resolved.Files = append(resolved.Files, models.TorrentFile{
			ID:       f.ID,
			Path:     f.Path,
			Bytes:    f.Bytes,
			Selected: f.Selected == 1,
		})
	}
	return resolved
}

// SelectFiles marks files for retrieval. Selecting files that are already
// selected is not an error.
func (r *RealDebrid) SelectFiles(apiKey, torrentID string, fileIDs string) error {
	if torrentID == "" {
		return errors.NewValidationError("empty torrent id")
	}
	if fileIDs == "" {
		fileIDs = "all"
	}
	return r.withRetry("selectFiles", func() error {
		return r.client.SelectFiles(apiKey, torrentID, fileIDs)
	})
}

func (r *RealDebrid) UnrestrictLink(apiKey, link string) (string, error) {
	if link == "" {
		return "", errors.NewValidationError("empty link")
	}

	var download string
	err := r.withRetry("unrestrictLink", func() error {
		resp, err := r.client.UnrestrictLink(apiKey, link)
		if err != nil {
			return err
		}
		download = resp.Download
		return nil
	})
	if err != nil {
		return "", err
	}
	return download, nil
}

// FindExistingTorrent scans the account's torrent list for a matching info
// hash. A miss returns (nil, nil); only transport failures are errors.
func (r *RealDebrid) FindExistingTorrent(apiKey, infoHash string) (*models.ResolvedTorrent, error) {
	infoHash = strings.ToLower(infoHash)

	var items []realdebrid.TorrentListItem
	err := r.withRetry("listTorrents", func() error {
		resp, err := r.client.ListTorrents(apiKey, constants.DebridListPageSize)
		if err != nil {
			return err
		}
		items = resp
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		if strings.ToLower(item.Hash) != infoHash {
			continue
		}
		r.logger.Debugf("[RealDebrid] hash %s already known as torrent %s", infoHash, item.ID)
		return r.GetTorrentInfo(apiKey, item.ID)
	}
	return nil, nil
}

// GetStreamLinkForFile maps a file id to its direct link. The link array is
// parallel to the selected files, so the file's position among selected
// files is its index into the links.
func (r *RealDebrid) GetStreamLinkForFile(apiKey, torrentID string, fileID int) (string, error) {
	info, err := r.GetTorrentInfo(apiKey, torrentID)
	if err != nil {
		return "", err
	}
	if info.Status != models.StatusDownloaded || len(info.Links) == 0 {
		return "", errors.NewNotFoundError("torrent " + torrentID + " not ready")
	}

	position := -1
	selected := 0
	for _, f := range info.Files {
		if !f.Selected {
			continue
		}
		if f.ID == fileID {
			position = selected
			break
		}
		selected++
	}
	if position < 0 || position >= len(info.Links) {
		return "", errors.NewNotFoundError("file " + strconv.Itoa(fileID) + " not among selected files")
	}

	return r.UnrestrictLink(apiKey, info.Links[position])
}

// ProcessTorrent is the composite submission path: reuse the account's
// existing torrent when the hash is already known, otherwise add the
// magnet, select every file and fetch the initial status.
func (r *RealDebrid) ProcessTorrent(apiKey, magnetURI string) (*models.ProcessedTorrent, error) {
	if !magnet.Valid(magnetURI) {
		return nil, errors.NewValidationError("malformed magnet URI")
	}
	hash, err := magnet.Hash(magnetURI)
	if err != nil {
		return nil, errors.NewValidationError("magnet URI has no info hash")
	}

	if existing, err := r.FindExistingTorrent(apiKey, hash); err == nil && existing != nil {
		return &models.ProcessedTorrent{
			ID:       existing.ID,
			Added:    false,
			Ready:    existing.Status == models.StatusDownloaded,
			Status:   existing.Status,
			Progress: existing.Progress,
		}, nil
	} else if err != nil && errors.IsAuth(err) {
		return nil, err
	}

	id, err := r.AddMagnet(apiKey, magnetURI)
	if err != nil {
		return nil, err
	}
	if err := r.SelectFiles(apiKey, id, "all"); err != nil {
		return nil, err
	}

	info, err := r.GetTorrentInfo(apiKey, id)
	if err != nil {
		return nil, err
	}
	return &models.ProcessedTorrent{
		ID:       info.ID,
		Added:    true,
		Ready:    info.Status == models.StatusDownloaded,
		Status:   info.Status,
		Progress: info.Progress,
	}, nil
}
