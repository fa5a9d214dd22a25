package sqlinline

const QListCatalog = `--sql a08d0627-b253-46d0-9a6c-45248c57d15b
select id::text, title, category, image_url, coalesce(tags, '{}'::text[])
from catalog
order by created_at desc;
`

const QInsertCatalog = `--sql 8e89d390-9db1-4713-bf0e-f3f8cebc9cc9
insert into catalog (id, title, category, image_url, tags, created_at)
values (gen_random_uuid(), $1::text, $2::text, $3::text, $4::text[], now())
returning id::text, title, category, image_url, coalesce(tags, '{}'::text[]);
`

const QDeleteCatalog = `--sql 99cf9fa1-e837-49e7-9477-85edab42b0b8
delete from catalog
where id = $1::uuid;
`
