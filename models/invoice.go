package models

import "time"

// InvoiceOwner dono de uma nota fiscal: exatamente um entre lançamento,
// empreitada ou pagamento de empreitada
type InvoiceOwner struct {
	Kind  OwnerKind `json:"tipo_dono" gorm:"column:tipo_dono;size:20;not null;index:idx_nf_dono"`
	RefID uint      `json:"dono_id" gorm:"column:dono_id;not null;index:idx_nf_dono"`
}

// EntryOwner, SubWorkOwner e PaymentOwner constroem as variantes
func EntryOwner(id uint) InvoiceOwner   { return InvoiceOwner{Kind: OwnerEntry, RefID: id} }
func SubWorkOwner(id uint) InvoiceOwner { return InvoiceOwner{Kind: OwnerSubWork, RefID: id} }
func PaymentOwner(id uint) InvoiceOwner { return InvoiceOwner{Kind: OwnerSubWorkPayment, RefID: id} }

// NewInvoiceOwner valida tipo e id
func NewInvoiceOwner(kind string, id uint) (InvoiceOwner, error) {
	k, err := ParseOwnerKind(kind)
	if err != nil {
		return InvoiceOwner{}, err
	}
	if id == 0 {
		return InvoiceOwner{}, Invalid("dono_id é obrigatório")
	}
	return InvoiceOwner{Kind: k, RefID: id}, nil
}

// Invoice nota fiscal anexada; o binário fica na própria linha
type Invoice struct {
	ID         uint         `json:"id" gorm:"primaryKey"`
	ProjectID  uint         `json:"obra_id" gorm:"column:obra_id;index;not null"`
	Owner      InvoiceOwner `json:"dono" gorm:"embedded"`
	Number     string       `json:"numero_nf" gorm:"column:numero_nf;size:60"`
	FileName   string       `json:"nome_arquivo" gorm:"column:nome_arquivo;size:255;not null"`
	MimeType   string       `json:"tipo_mime" gorm:"column:tipo_mime;size:120;not null"`
	Size       int64        `json:"tamanho" gorm:"column:tamanho;not null"`
	Content    []byte       `json:"-" gorm:"column:arquivo;not null"`
	UploadedAt time.Time    `json:"data_upload" gorm:"column:data_upload;autoCreateTime"`
}

func (Invoice) TableName() string {
	return "notas_fiscais"
}

// InvoiceMetadataColumns colunas sem o binário, para listagens
var InvoiceMetadataColumns = []string{"id", "obra_id", "tipo_dono", "dono_id", "numero_nf", "nome_arquivo", "tipo_mime", "tamanho", "data_upload"}
