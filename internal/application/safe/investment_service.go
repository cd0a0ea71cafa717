package safe

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/safedocs/backend/internal/domain/investment"
	"github.com/safedocs/backend/internal/domain/shared"
	"github.com/safedocs/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// ErrDocumentNotGenerated is returned when a download is requested before generation
var ErrDocumentNotGenerated = shared.NewDomainError("DOCUMENT_NOT_GENERATED", "No document has been generated for this investment")

// Repositories groups the persistence ports the investment service needs
type Repositories = investment.Repositories

// InvestmentService manages stored investments and their documents
type InvestmentService struct {
	repos       Repositories
	uow         investment.UnitOfWork
	docs        *DocumentService
	storage     DocumentStorage
	downloadTTL time.Duration
	logger      *zap.Logger
}

// InvestmentOption configures an InvestmentService
type InvestmentOption func(*InvestmentService)

// WithUnitOfWork makes Create write the parties and the investment in one
// transaction
func WithUnitOfWork(uow investment.UnitOfWork) InvestmentOption {
	return func(s *InvestmentService) {
		if uow != nil {
			s.uow = uow
		}
	}
}

// NewInvestmentService creates a new InvestmentService. Without WithUnitOfWork
// writes go straight to repos.
func NewInvestmentService(
	repos Repositories,
	docs *DocumentService,
	store DocumentStorage,
	downloadTTL time.Duration,
	logger *zap.Logger,
	opts ...InvestmentOption,
) *InvestmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if downloadTTL <= 0 {
		downloadTTL = 15 * time.Minute
	}
	s := &InvestmentService{
		repos:       repos,
		uow:         directUnitOfWork{repos: repos},
		docs:        docs,
		storage:     store,
		downloadTTL: downloadTTL,
		logger:      logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// directUnitOfWork runs fn on the plain repositories, without a transaction
type directUnitOfWork struct {
	repos Repositories
}

func (u directUnitOfWork) Do(_ context.Context, fn func(Repositories) error) error {
	return fn(u.repos)
}

// Create records an investment. Each party is looked up by id when one is given,
// otherwise created for the caller.
func (s *InvestmentService) Create(ctx context.Context, creatorID uuid.UUID, req CreateInvestmentRequest) (*InvestmentResponse, error) {
	variant, err := investment.ParseVariant(req.Type)
	if err != nil {
		return nil, err
	}
	date, err := investment.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}
	terms := investment.InvestmentTerms{
		PurchaseAmount: req.PurchaseAmount,
		Variant:        variant,
		ValuationCap:   req.ValuationCap,
		Discount:       req.Discount,
		Date:           date,
		Rights: investment.Rights{
			InformationRights:   req.InformationRights,
			ProRataRights:       req.ProRataRights,
			MajorInvestorRights: req.MajorInvestorRights,
			Termination:         req.Termination,
		},
	}
	// Reject bad terms before any party row is written
	if _, err := investment.Format(terms); err != nil {
		return nil, err
	}

	var inv *investment.Investment
	err = s.uow.Do(ctx, func(repos Repositories) error {
		company, err := resolveCompany(ctx, repos.Companies, creatorID, req.Company)
		if err != nil {
			return err
		}
		fund, err := resolveFund(ctx, repos.Funds, creatorID, req.Fund)
		if err != nil {
			return err
		}
		founder, err := resolveFounder(ctx, repos.Founders, creatorID, req.Founder)
		if err != nil {
			return err
		}
		investor, err := resolveInvestor(ctx, repos.Investors, creatorID, req.Investor)
		if err != nil {
			return err
		}

		created, err := investment.NewInvestment(creatorID, founder.ID, investor.ID, company.ID, fund.ID, terms)
		if err != nil {
			return err
		}
		if err := repos.Investments.Save(ctx, created); err != nil {
			return fmt.Errorf("failed to save investment: %w", err)
		}
		created.Company, created.Fund, created.Founder, created.Investor = company, fund, founder, investor
		inv = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("investment created",
		zap.String("id", inv.ID.String()),
		zap.String("type", string(inv.Type)))

	resp := ToInvestmentResponse(inv)
	return &resp, nil
}

// Get returns one of the caller's investments
func (s *InvestmentService) Get(ctx context.Context, creatorID, id uuid.UUID) (*InvestmentResponse, error) {
	inv, err := s.load(ctx, creatorID, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvestmentResponse(inv)
	return &resp, nil
}

// List pages through the caller's investments
func (s *InvestmentService) List(ctx context.Context, creatorID uuid.UUID, req ListInvestmentsRequest) ([]InvestmentResponse, int64, error) {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.OrderBy != "" {
		filter.OrderBy = req.OrderBy
	}
	if req.OrderDir != "" {
		filter.OrderDir = req.OrderDir
	}

	rows, total, err := s.repos.Investments.FindByCreator(ctx, creatorID, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list investments: %w", err)
	}
	out := make([]InvestmentResponse, len(rows))
	for i := range rows {
		out[i] = ToInvestmentResponse(&rows[i])
	}
	return out, total, nil
}

// Delete removes an investment and its stored document
func (s *InvestmentService) Delete(ctx context.Context, creatorID, id uuid.UUID) error {
	inv, err := s.load(ctx, creatorID, id)
	if err != nil {
		return err
	}
	if err := s.repos.Investments.Delete(ctx, id); err != nil {
		return err
	}
	if inv.URL != "" && s.storage != nil {
		if err := s.storage.Delete(ctx, inv.URL); err != nil {
			s.logger.Warn("failed to delete stored document", zap.String("key", inv.URL), zap.Error(err))
		}
	}
	return nil
}

// GenerateDocument renders the investment's SAFE, stores it and writes back the
// document location, summary and status. A failed summary leaves it empty.
func (s *InvestmentService) GenerateDocument(ctx context.Context, creatorID, id uuid.UUID) (*DocumentLinkResponse, error) {
	inv, err := s.load(ctx, creatorID, id)
	if err != nil {
		return nil, err
	}
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "Document storage is not configured")
	}

	terms := inv.Terms()
	doc, err := s.docs.Generate(ctx, terms)
	if err != nil {
		return nil, err
	}
	summary := s.docs.OptionalDealSummary(ctx, terms)

	key := storage.DocumentKey(creatorID, inv.ID, doc.DownloadFilename())
	if err := s.storage.Put(ctx, key, doc.Bytes(), doc.ContentType()); err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}
	if err := s.repos.Investments.UpdateDocument(ctx, inv.ID, key, summary, investment.StatusGenerated); err != nil {
		if derr := s.storage.Delete(ctx, key); derr != nil {
			s.logger.Warn("failed to delete unrecorded document", zap.String("key", key), zap.Error(derr))
		}
		return nil, fmt.Errorf("failed to record document: %w", err)
	}
	inv.RecordDocument(key, summary)

	url, expires, err := s.storage.DownloadURL(ctx, key, s.downloadTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign download url: %w", err)
	}

	s.logger.Info("investment document generated",
		zap.String("investment_id", inv.ID.String()),
		zap.String("key", key),
		zap.Bool("summarized", summary != ""))

	return &DocumentLinkResponse{
		InvestmentID: inv.ID.String(),
		Filename:     doc.DownloadFilename(),
		URL:          url,
		ExpiresAt:    expires,
		Summary:      summary,
		Status:       string(inv.Status),
	}, nil
}

// DocumentLink returns a time-limited download URL for the stored document
func (s *InvestmentService) DocumentLink(ctx context.Context, creatorID, id uuid.UUID) (*DocumentLinkResponse, error) {
	inv, err := s.load(ctx, creatorID, id)
	if err != nil {
		return nil, err
	}
	if inv.URL == "" {
		return nil, ErrDocumentNotGenerated
	}
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "Document storage is not configured")
	}

	url, expires, err := s.storage.DownloadURL(ctx, inv.URL, s.downloadTTL)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrDocumentNotGenerated
		}
		return nil, fmt.Errorf("failed to sign download url: %w", err)
	}
	return &DocumentLinkResponse{
		InvestmentID: inv.ID.String(),
		Filename:     "YC-SAFE-" + inv.Type.DisplayName() + ".docx",
		URL:          url,
		ExpiresAt:    expires,
		Summary:      inv.Summary,
		Status:       string(inv.Status),
	}, nil
}

// load fetches an investment, hiding rows owned by other creators
func (s *InvestmentService) load(ctx context.Context, creatorID, id uuid.UUID) (*investment.Investment, error) {
	inv, err := s.repos.Investments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Investment not found")
		}
		return nil, fmt.Errorf("failed to get investment: %w", err)
	}
	if inv.CreatorID != creatorID {
		return nil, shared.NewDomainError("NOT_FOUND", "Investment not found")
	}
	return inv, nil
}

func parseRef(ref PartyRef) (uuid.UUID, bool, error) {
	if ref.ID == "" {
		return uuid.Nil, false, nil
	}
	id, err := uuid.Parse(ref.ID)
	if err != nil {
		return uuid.Nil, false, shared.NewDomainError("INVALID_INPUT", "Invalid party id")
	}
	return id, true, nil
}

// owned hides parties belonging to other accounts
func owned[T any](entity *T, err error, ownerID, want uuid.UUID, what string) (*T, error) {
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", what+" not found")
		}
		return nil, err
	}
	if ownerID != want {
		return nil, shared.NewDomainError("NOT_FOUND", what+" not found")
	}
	return entity, nil
}

func resolveCompany(ctx context.Context, repo investment.CompanyRepository, creatorID uuid.UUID, in CompanyInput) (*investment.Company, error) {
	id, ok, err := parseRef(in.PartyRef)
	if err != nil {
		return nil, err
	}
	if ok {
		c, err := repo.FindByID(ctx, id)
		var owner uuid.UUID
		if c != nil {
			owner = c.OwnerID
		}
		return owned(c, err, owner, creatorID, "Company")
	}
	c, err := investment.NewCompany(creatorID, in.Name)
	if err != nil {
		return nil, err
	}
	c.Street, c.CityStateZip, c.StateOfIncorporation = in.Street, in.CityStateZip, in.StateOfIncorporation
	if err := repo.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save company: %w", err)
	}
	return c, nil
}

func resolveFund(ctx context.Context, repo investment.FundRepository, creatorID uuid.UUID, in FundInput) (*investment.Fund, error) {
	id, ok, err := parseRef(in.PartyRef)
	if err != nil {
		return nil, err
	}
	if ok {
		f, err := repo.FindByID(ctx, id)
		var owner uuid.UUID
		if f != nil {
			owner = f.OwnerID
		}
		return owned(f, err, owner, creatorID, "Fund")
	}
	f, err := investment.NewFund(creatorID, in.Name)
	if err != nil {
		return nil, err
	}
	f.Byline, f.Street, f.CityStateZip = in.Byline, in.Street, in.CityStateZip
	if err := repo.Save(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to save fund: %w", err)
	}
	return f, nil
}

func resolveFounder(ctx context.Context, repo investment.FounderRepository, creatorID uuid.UUID, in PersonInput) (*investment.Founder, error) {
	id, ok, err := parseRef(in.PartyRef)
	if err != nil {
		return nil, err
	}
	if ok {
		f, err := repo.FindByID(ctx, id)
		var owner uuid.UUID
		if f != nil {
			owner = f.OwnerID
		}
		return owned(f, err, owner, creatorID, "Founder")
	}
	f, err := investment.NewFounder(creatorID, in.Name, in.Email)
	if err != nil {
		return nil, err
	}
	f.Title = in.Title
	if err := repo.Save(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to save founder: %w", err)
	}
	return f, nil
}

func resolveInvestor(ctx context.Context, repo investment.InvestorRepository, creatorID uuid.UUID, in PersonInput) (*investment.Investor, error) {
	id, ok, err := parseRef(in.PartyRef)
	if err != nil {
		return nil, err
	}
	if ok {
		i, err := repo.FindByID(ctx, id)
		var owner uuid.UUID
		if i != nil {
			owner = i.OwnerID
		}
		return owned(i, err, owner, creatorID, "Investor")
	}
	i, err := investment.NewInvestor(creatorID, in.Name, in.Email)
	if err != nil {
		return nil, err
	}
	i.Title = in.Title
	if err := repo.Save(ctx, i); err != nil {
		return nil, fmt.Errorf("failed to save investor: %w", err)
	}
	return i, nil
}
