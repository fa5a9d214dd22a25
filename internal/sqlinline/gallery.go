package sqlinline

const QListGallery = `--sql 107b7b6e-b2b9-4003-9130-ec9795a7e4c8
select id::text, image_url, confidence, customer_data, garment_data, created_at
from gallery
order by created_at desc;
`

const QInsertGallery = `--sql b32fbb30-bb3f-4aa7-8837-3da094da2b29
insert into gallery (id, image_url, confidence, customer_data, garment_data, created_at)
values (gen_random_uuid(), $1::text, $2::double precision, $3::jsonb, $4::jsonb, now())
returning id::text, image_url, confidence, customer_data, garment_data, created_at;
`
