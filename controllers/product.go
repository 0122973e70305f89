package controllers

import (
	"context"
	"errors"
	"fmt"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"go-shop/errs"
	"go-shop/services"
	"go-shop/utils"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	maxUploadMemory = 10 << 20
	maxUploadBody   = 5*maxUploadMemory + 1<<20
)

// ProductController handles product-related requests
type ProductController struct {
	products *services.ProductService
	log      *zap.Logger
}

// NewProductController creates a new ProductController
func NewProductController(products *services.ProductService, log *zap.Logger) *ProductController {
	return &ProductController{products: products, log: log}
}

// CreateProduct accepts a multipart form (or a JSON body without images).
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var (
		in      services.ProductInput
		uploads []services.ImageUpload
		err     error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var files []multipart.File
		in, uploads, files, err = parseProductForm(w, r)
		defer func() {
			for _, f := range files {
				f.Close()
			}
			if r.MultipartForm != nil {
				r.MultipartForm.RemoveAll()
			}
		}()
	} else {
		in, err = decodeProductJSON(w, r)
	}
	if err != nil {
		utils.Error(w, pc.log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 4*requestTimeout)
	defer cancel()
	product, err := pc.products.Create(ctx, identity(r).ID, in, uploads)
	if err != nil {
		utils.Error(w, pc.log, err)
		return
	}
	utils.JSON(w, http.StatusCreated, product)
}

// GetProducts lists the public catalog.
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	minPrice, err := optionalFloat(q.Get("minprice"), "minprice")
	if err != nil {
		utils.Error(w, pc.log, err)
		return
	}
	maxPrice, err := optionalFloat(q.Get("maxprice"), "maxprice")
	if err != nil {
		utils.Error(w, pc.log, err)
		return
	}
	limitParam := q.Get("limit")
	if limitParam == "" {
		limitParam = q.Get("list")
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	products, err := pc.products.List(ctx, services.ListQuery{
		Query:    q.Get("q"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		Skip:     intParam(q.Get("skip")),
		Limit:    intParam(limitParam),
	})
	if err != nil {
		utils.Error(w, pc.log, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{"data": products})
}

// GetSellerProducts lists the caller's own products.
func (pc *ProductController) GetSellerProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	products, err := pc.products.ListBySeller(ctx, identity(r).ID, intParam(q.Get("skip")), intParam(q.Get("limit")))
	if err != nil {
		utils.Error(w, pc.log, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{"data": products})
}

// GetProductByID retrieves a single product
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	product, err := pc.products.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, pc.log, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{"product": product})
}

// UpdateProduct patches a product owned by the caller.
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var patch services.ProductPatch
	if err := utils.DecodeJSON(w, r, &patch); err != nil {
		utils.Error(w, pc.log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	product, err := pc.products.Update(ctx, identity(r).ID, mux.Vars(r)["id"], patch)
	if err != nil {
		utils.Error(w, pc.log, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]any{"message": "Product updated", "data": product})
}

// DeleteProduct deletes a product owned by the caller.
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	if err := pc.products.Delete(ctx, identity(r).ID, mux.Vars(r)["id"]); err != nil {
		utils.Error(w, pc.log, err)
		return
	}
	utils.Message(w, http.StatusOK, "Product deleted successfully")
}

// parseProductForm reads the product fields and opens every "images" part.
// The caller closes the returned files.
func parseProductForm(w http.ResponseWriter, r *http.Request) (services.ProductInput, []services.ImageUpload, []multipart.File, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return services.ProductInput{}, nil, nil, errs.Invalid("images", "upload is too large")
		}
		return services.ProductInput{}, nil, nil, errs.Invalid("body", "invalid multipart form")
	}

	in := services.ProductInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Currency:    r.FormValue("currency"),
	}
	price, err := optionalFloat(firstNonEmpty(r.FormValue("price"), r.FormValue("amount"), r.FormValue("priceAmount")), "price")
	if err != nil {
		return in, nil, nil, err
	}
	if price != nil {
		in.Price = *price
	}

	headers := r.MultipartForm.File["images"]
	if len(headers) > services.MaxProductImages {
		return in, nil, nil, errs.Invalid("images", fmt.Sprintf("maximum %d images allowed", services.MaxProductImages))
	}
	uploads := make([]services.ImageUpload, 0, len(headers))
	files := make([]multipart.File, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			return in, nil, files, fmt.Errorf("%w: open upload: %w", errs.ErrInternal, err)
		}
		files = append(files, f)
		uploads = append(uploads, services.ImageUpload{Filename: h.Filename, Body: f})
	}
	return in, uploads, files, nil
}

func decodeProductJSON(w http.ResponseWriter, r *http.Request) (services.ProductInput, error) {
	var body struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Price       *float64 `json:"price"`
		Amount      *float64 `json:"amount"`
		PriceAmount *float64 `json:"priceAmount"`
		Currency    string   `json:"currency"`
	}
	if err := utils.DecodeJSON(w, r, &body); err != nil {
		return services.ProductInput{}, err
	}
	in := services.ProductInput{Title: body.Title, Description: body.Description, Currency: body.Currency}
	for _, p := range []*float64{body.Price, body.Amount, body.PriceAmount} {
		if p != nil {
			in.Price = *p
			break
		}
	}
	return in, nil
}

func optionalFloat(s, field string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, errs.Invalid(field, field+" must be a number")
	}
	return &v, nil
}

// intParam parses a paging parameter; anything unparsable counts as unset.
func intParam(s string) int64 {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
