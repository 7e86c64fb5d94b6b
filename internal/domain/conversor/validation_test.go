package conversor

import (
	"errors"
	"testing"

	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mb = 1024 * 1024

func fieldErrors(t *testing.T, err error) domain.FieldErrors {
	t.Helper()
	require.Error(t, err)
	var fe domain.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	return fe
}

func TestValidate_MergeExigeDoisPDFs(t *testing.T) {
	err := Validate(Request{
		Tipo:    entity.ConversaoPDFMerge,
		Primary: &FileMeta{Name: "a.pdf", Size: 8},
	}, 80*mb)
	fe := fieldErrors(t, err)
	assert.True(t, fe.Has(FieldAdicional))
}

func TestValidate_MergeAceitaVariosPDFs(t *testing.T) {
	err := Validate(Request{
		Tipo:       entity.ConversaoPDFMerge,
		Primary:    &FileMeta{Name: "a.pdf", Size: 8},
		Adicionais: []FileMeta{{Name: "b.PDF", Size: 8}, {Name: "c.pdf", Size: 8}},
	}, 80*mb)
	assert.NoError(t, err)
}

func TestValidate_MergeRecusaNaoPDF(t *testing.T) {
	err := Validate(Request{
		Tipo:       entity.ConversaoPDFMerge,
		Primary:    &FileMeta{Name: "a.pdf", Size: 8},
		Adicionais: []FileMeta{{Name: "b.docx", Size: 8}},
	}, 80*mb)
	fe := fieldErrors(t, err)
	assert.True(t, fe.Has(FieldInput))
	assert.False(t, fe.Has(FieldAdicional))
}

func TestValidate_MascaraDePaginas(t *testing.T) {
	err := Validate(Request{
		Tipo:    entity.ConversaoPDFSplit,
		Pages:   "abc",
		Primary: &FileMeta{Name: "a.pdf", Size: 8},
	}, 80*mb)
	fe := fieldErrors(t, err)
	assert.True(t, fe.Has(FieldPages))

	assert.NoError(t, Validate(Request{
		Tipo:    entity.ConversaoPDFSplit,
		Pages:   " 1-3, 8 ",
		Primary: &FileMeta{Name: "a.pdf", Size: 8},
	}, 80*mb))
}

func TestValidate_SemArquivos(t *testing.T) {
	fe := fieldErrors(t, Validate(Request{Tipo: entity.ConversaoDocxToPDF}, 80*mb))
	assert.True(t, fe.Has(FieldInput))
}

func TestValidate_SoAdicionaisSemPrincipal(t *testing.T) {
	cases := map[string][]FileMeta{
		entity.ConversaoImgToPDF: {{Name: "a.png", Size: 8}, {Name: "b.jpg", Size: 8}},
		entity.ConversaoPDFMerge: {{Name: "a.pdf", Size: 8}, {Name: "b.pdf", Size: 8}},
	}
	for tipo, adicionais := range cases {
		fe := fieldErrors(t, Validate(Request{Tipo: tipo, Adicionais: adicionais}, 80*mb))
		assert.True(t, fe.Has(FieldInput), tipo)
		assert.False(t, fe.Has(FieldAdicional), tipo)
	}
}

func TestValidate_TamanhoTotal(t *testing.T) {
	fe := fieldErrors(t, Validate(Request{
		Tipo:       entity.ConversaoImgToPDF,
		Primary:    &FileMeta{Name: "a.png", Size: mb},
		Adicionais: []FileMeta{{Name: "b.jpg", Size: mb}},
	}, mb))
	assert.Contains(t, fe[FieldInput][0], "1 MB")
}

func TestValidate_TiposPorExtensao(t *testing.T) {
	assert.NoError(t, Validate(Request{Tipo: entity.ConversaoDocxToPDF, Primary: &FileMeta{Name: "Ofício.DOCX"}}, 0))
	assert.Error(t, Validate(Request{Tipo: entity.ConversaoDocxToPDF, Primary: &FileMeta{Name: "a.pdf"}}, 0))
	assert.Error(t, Validate(Request{Tipo: entity.ConversaoImgToPDF, Primary: &FileMeta{Name: "a.png"}, Adicionais: []FileMeta{{Name: "b.pdf"}}}, 0))
	assert.NoError(t, Validate(Request{Tipo: entity.ConversaoPDFToImages, Primary: &FileMeta{Name: "a.pdf"}}, 0))
	assert.Error(t, Validate(Request{Tipo: entity.ConversaoPDFToImages, Primary: &FileMeta{Name: "a.png"}}, 0))
	assert.Error(t, Validate(Request{Tipo: "ZIP", Primary: &FileMeta{Name: "a.pdf"}}, 0))
}

func TestParsePages(t *testing.T) {
	cases := []struct {
		spec  string
		total int
		want  []int
	}{
		{"", 3, []int{1, 2, 3}},
		{"1,3", 5, []int{1, 3}},
		{"5-3", 10, []int{3, 4, 5}},
		{"2-4, 3, 9", 5, []int{2, 3, 4}},
		{"0-2", 5, []int{1, 2}},
	}
	for _, c := range cases {
		got, err := ParsePages(c.spec, c.total)
		require.NoError(t, err, c.spec)
		assert.Equal(t, c.want, got, c.spec)
	}
}

func TestParsePages_SemPaginasValidas(t *testing.T) {
	_, err := ParsePages("10-12", 3)
	assert.ErrorIs(t, err, ErrInvalidPages)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = ParsePages("3-", 3)
	assert.ErrorIs(t, err, ErrInvalidPages)

	_, err = ParsePages("", 0)
	assert.ErrorIs(t, err, ErrInvalidPages)
}
