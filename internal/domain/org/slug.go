package org

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gepub/gepub-api/pkg/textutil"
)

// SlugMaxLen tamanho máximo do slug_site.
const SlugMaxLen = 90

// SlugExists consulta se um slug já está em uso (excluindo o próprio registro na atualização).
type SlugExists func(ctx context.Context, slug string) (bool, error)

// BaseSlug deriva o slug do valor informado ou, se vazio, do nome.
func BaseSlug(informado, nome string) string {
	base := textutil.Slugify(informado, "-", SlugMaxLen)
	if base == "" {
		base = textutil.Slugify(nome, "-", SlugMaxLen)
	}
	if base == "" {
		base = "municipio"
	}
	return base
}

// UniqueSlug devolve base ou base-N (N >= 2) respeitando SlugMaxLen.
func UniqueSlug(ctx context.Context, base string, exists SlugExists) (string, error) {
	candidate := base
	for n := 2; ; n++ {
		used, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("verificar slug: %w", err)
		}
		if !used {
			return candidate, nil
		}
		suffix := "-" + strconv.Itoa(n)
		trimmed := base
		if len(trimmed)+len(suffix) > SlugMaxLen {
			trimmed = trimmed[:SlugMaxLen-len(suffix)]
		}
		candidate = trimmed + suffix
	}
}
